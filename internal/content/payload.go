// internal/content/payload.go
//
// Typed payloads keyed by Kind.
//
// Context
// -------
// Stored content is a tagged union: the tag is the resolved Kind and the
// shape of Content depends on it.  Decode is the only place that turns raw
// JSON into one of the structs below.  Several presets of one primitive
// share a struct; the preset decides which fields the renderer reads.
//
// Decode never fails hard.  A payload that does not match its shape comes
// back as the zero value of the right type plus an error, so the renderer
// can still draw a degraded block and the rest of the page survives.
package content

import (
	"encoding/json"
	"fmt"
)

// Payload is implemented by every typed payload.
type Payload interface {
	payloadKind() string
}

// RichText covers the visual, markdown, and article presets.  The editor
// body is opaque: HTML for visual, Markdown for markdown and article.
type RichText struct {
	Mode     string `json:"mode,omitempty"`
	HTML     string `json:"html,omitempty"`
	Markdown string `json:"markdown,omitempty"`
	Title    string `json:"title,omitempty"`
	Byline   string `json:"byline,omitempty"`
}

// Hero covers full, cta, and title-only.
type Hero struct {
	Layout     string `json:"layout,omitempty"`
	Eyebrow    string `json:"eyebrow,omitempty"`
	Heading    string `json:"heading"`
	Subheading string `json:"subheading,omitempty"`
	Image      *Image `json:"image,omitempty"`
	Primary    *Link  `json:"primaryCta,omitempty"`
	Secondary  *Link  `json:"secondaryCta,omitempty"`
}

// Image is a reference to an already-uploaded asset.
type Image struct {
	URL     string `json:"url"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// Card is one entry of a Cards block.  Which fields matter depends on the
// preset: Icon for feature, Quote/Author/Role for testimonial, Price and
// Link for product.
type Card struct {
	Title  string `json:"title,omitempty"`
	Body   string `json:"body,omitempty"`
	Icon   string `json:"icon,omitempty"`
	Image  *Image `json:"image,omitempty"`
	Quote  string `json:"quote,omitempty"`
	Author string `json:"author,omitempty"`
	Role   string `json:"role,omitempty"`
	Price  string `json:"price,omitempty"`
	Link   *Link  `json:"link,omitempty"`
}

// Cards covers feature, testimonial, and product.
type Cards struct {
	Template string `json:"template,omitempty"`
	Heading  string `json:"heading,omitempty"`
	Intro    string `json:"intro,omitempty"`
	Columns  int    `json:"columns,omitempty"`
	Items    []Card `json:"items"`
}

// Media covers single, gallery, and embed.
type Media struct {
	Mode     string  `json:"mode,omitempty"`
	Image    *Image  `json:"image,omitempty"`
	Images   []Image `json:"images,omitempty"`
	EmbedURL string  `json:"embedUrl,omitempty"`
	Title    string  `json:"title,omitempty"`
	Aspect   string  `json:"aspect,omitempty"`
}

// Post is a blog teaser.
type Post struct {
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt,omitempty"`
	URL       string `json:"url"`
	Image     *Image `json:"image,omitempty"`
	Published string `json:"published,omitempty"`
}

// Blog covers featured and grid.
type Blog struct {
	Mode    string `json:"mode,omitempty"`
	Heading string `json:"heading,omitempty"`
	Posts   []Post `json:"posts"`
}

// Contact is the contact block.
type Contact struct {
	Heading string `json:"heading,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	FormID  string `json:"formId,omitempty"`
}

// SocialLinks is the standalone social block.
type SocialLinks struct {
	Heading string       `json:"heading,omitempty"`
	Links   []SocialLink `json:"links"`
}

// Unknown carries the raw fields of a kind this binary does not model.
type Unknown struct {
	Fields map[string]any
}

func (RichText) payloadKind() string      { return PrimitiveRichText }
func (Hero) payloadKind() string          { return PrimitiveHero }
func (Cards) payloadKind() string         { return PrimitiveCards }
func (Media) payloadKind() string         { return PrimitiveMedia }
func (Blog) payloadKind() string          { return PrimitiveBlog }
func (HeaderContent) payloadKind() string { return PrimitiveHeader }
func (FooterContent) payloadKind() string { return PrimitiveFooter }
func (Contact) payloadKind() string       { return PrimitiveContact }
func (SocialLinks) payloadKind() string   { return PrimitiveSocialLinks }
func (Unknown) payloadKind() string       { return "" }

// decoders builds a fresh pointer for each primitive.
var decoders = map[string]func() any{
	PrimitiveRichText:    func() any { return &RichText{} },
	PrimitiveHero:        func() any { return &Hero{} },
	PrimitiveCards:       func() any { return &Cards{} },
	PrimitiveMedia:       func() any { return &Media{} },
	PrimitiveBlog:        func() any { return &Blog{} },
	PrimitiveHeader:      func() any { return &HeaderContent{} },
	PrimitiveFooter:      func() any { return &FooterContent{} },
	PrimitiveContact:     func() any { return &Contact{} },
	PrimitiveSocialLinks: func() any { return &SocialLinks{} },
}

// Decode turns raw into the payload for kind.  On a shape mismatch it
// returns the zero payload of the expected type together with an error.
// Empty input decodes to the zero payload without error (a freshly added
// block that has not been edited yet).
func Decode(kind Kind, raw json.RawMessage) (Payload, error) {
	mk, ok := decoders[kind.Primitive]
	if !ok {
		u := Unknown{Fields: map[string]any{}}
		if len(raw) == 0 {
			return u, nil
		}
		if err := json.Unmarshal(raw, &u.Fields); err != nil {
			return Unknown{Fields: map[string]any{}}, fmt.Errorf("decode %s: %w", kind, err)
		}
		return u, nil
	}

	ptr := mk()
	if len(raw) == 0 || string(raw) == "null" {
		return deref(ptr), nil
	}
	if err := json.Unmarshal(raw, ptr); err != nil {
		return deref(mk()), fmt.Errorf("decode %s: %w", kind, err)
	}
	return deref(ptr), nil
}

// deref returns the value behind one of the decoder pointers.
func deref(p any) Payload {
	switch v := p.(type) {
	case *RichText:
		return *v
	case *Hero:
		return *v
	case *Cards:
		return *v
	case *Media:
		return *v
	case *Blog:
		return *v
	case *HeaderContent:
		return *v
	case *FooterContent:
		return *v
	case *Contact:
		return *v
	case *SocialLinks:
		return *v
	}
	return Unknown{Fields: map[string]any{}}
}
