// internal/content/resolver.go
//
// Primitive/preset resolver.
//
// Context
// -------
// The block vocabulary changed over time.  Older records carry declared
// types such as "hero_cta" or "testimonials"; newer ones carry the
// primitive name ("hero_primitive", "cards") and keep the variant inside
// the payload.  Resolve maps both onto one canonical Kind so the renderer,
// the editor inspector, and the styling controls never care which
// generation of content they are looking at.
//
// Workflow
// --------
//  1. Legacy table hit → fixed (primitive, preset), payload ignored.
//  2. Declared type is a current primitive → preset read from the
//     primitive's preset field, default when absent or unrecognised.
//  3. Anything else → (declaredType, no preset).  Unknown types pass
//     through so blocks newer than this binary stay addressable.
//
// Resolve is total: it never panics and never returns an error.
package content

import (
	"encoding/json"
	"slices"
)

// Canonical primitive names.
const (
	PrimitiveRichText    = "richtext"
	PrimitiveHero        = "hero_primitive"
	PrimitiveCards       = "cards"
	PrimitiveMedia       = "media"
	PrimitiveBlog        = "blog"
	PrimitiveHeader      = "header"
	PrimitiveFooter      = "footer"
	PrimitiveContact     = "contact"
	PrimitiveSocialLinks = "social_links"
)

// Kind is the canonical (primitive, preset) pair.  An empty Preset means
// the primitive has no preset (or it is unknown).
type Kind struct {
	Primitive string `json:"primitive"`
	Preset    string `json:"preset,omitempty"`
}

// String renders "primitive/preset", or just the primitive.
func (k Kind) String() string {
	if k.Preset == "" {
		return k.Primitive
	}
	return k.Primitive + "/" + k.Preset
}

// legacy maps old declared types to a fixed kind.
var legacy = map[string]Kind{
	"text":     {PrimitiveRichText, "visual"},
	"markdown": {PrimitiveRichText, "markdown"},
	"article":  {PrimitiveRichText, "article"},

	"hero":       {PrimitiveHero, "full"},
	"hero_cta":   {PrimitiveHero, "cta"},
	"hero_title": {PrimitiveHero, "title-only"},

	"features":     {PrimitiveCards, "feature"},
	"testimonials": {PrimitiveCards, "testimonial"},
	"products":     {PrimitiveCards, "product"},

	"image":   {PrimitiveMedia, "single"},
	"gallery": {PrimitiveMedia, "gallery"},
	"embed":   {PrimitiveMedia, "embed"},

	"blog_featured": {PrimitiveBlog, "featured"},
	"blog_grid":     {PrimitiveBlog, "grid"},

	"header":       {PrimitiveHeader, ""},
	"footer":       {PrimitiveFooter, ""},
	"contact":      {PrimitiveContact, ""},
	"social_links": {PrimitiveSocialLinks, ""},
}

// presetRule says where a current-path primitive keeps its preset.
type presetRule struct {
	field    string
	fallback string
	known    []string
}

var current = map[string]presetRule{
	PrimitiveRichText: {field: "mode", fallback: "visual", known: []string{"visual", "markdown", "article"}},
	PrimitiveHero:     {field: "layout", fallback: "full", known: []string{"full", "cta", "title-only"}},
	PrimitiveCards:    {field: "template", fallback: "feature", known: []string{"feature", "testimonial", "product"}},
	PrimitiveMedia:    {field: "mode", fallback: "single", known: []string{"single", "gallery", "embed"}},
	PrimitiveBlog:     {field: "mode", fallback: "featured", known: []string{"featured", "grid"}},
}

// Resolve maps a declared type and its payload to a canonical Kind.
func Resolve(declaredType string, payload json.RawMessage) Kind {
	if k, ok := legacy[declaredType]; ok {
		return k
	}
	if rule, ok := current[declaredType]; ok {
		return Kind{Primitive: declaredType, Preset: rule.pick(payload)}
	}
	return Kind{Primitive: declaredType}
}

// pick reads the preset field, falling back on any shape problem.
func (r presetRule) pick(payload json.RawMessage) string {
	if len(payload) == 0 {
		return r.fallback
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return r.fallback
	}
	raw, ok := fields[r.field]
	if !ok {
		return r.fallback
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return r.fallback
	}
	if !slices.Contains(r.known, v) {
		return r.fallback
	}
	return v
}

// Presets lists the presets a primitive accepts, default first.  Nil for
// primitives without presets.
func Presets(primitive string) []string {
	rule, ok := current[primitive]
	if !ok {
		return nil
	}
	out := []string{rule.fallback}
	for _, p := range rule.known {
		if p != rule.fallback {
			out = append(out, p)
		}
	}
	return out
}

// IsLegacy reports whether declaredType belongs to the legacy vocabulary.
// The standalone types (header, footer, contact, social_links) appear in
// both vocabularies and report true.
func IsLegacy(declaredType string) bool {
	_, ok := legacy[declaredType]
	return ok
}
