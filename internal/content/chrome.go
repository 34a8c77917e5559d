package content

// HeaderContent is the header payload shared by site baselines, page
// overrides, and header sections.  Scalar fields are pointers so that an
// explicitly empty value can be told apart from "not set".  A nil slice
// means "not set"; a non-nil empty slice is a deliberate empty list.
type HeaderContent struct {
	Logo     *string   `json:"logo,omitempty"`
	LogoURL  *string   `json:"logoUrl,omitempty"`
	SiteName *string   `json:"siteName,omitempty"`
	Nav      []NavItem `json:"nav,omitempty"`
	CTA      *Link     `json:"cta,omitempty"`
	Sticky   *bool     `json:"sticky,omitempty"`
	Layout   *string   `json:"layout,omitempty"`
}

// FooterContent is the footer counterpart of HeaderContent.
type FooterContent struct {
	Copyright     *string        `json:"copyright,omitempty"`
	Tagline       *string        `json:"tagline,omitempty"`
	Columns       []FooterColumn `json:"columns,omitempty"`
	Social        []SocialLink   `json:"social,omitempty"`
	Legal         []Link         `json:"legal,omitempty"`
	ShowPoweredBy *bool          `json:"showPoweredBy,omitempty"`
}

// Link is a labelled href.
type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// NavItem is one entry of a header navigation list.  Children render as a
// dropdown when present.
type NavItem struct {
	Label    string    `json:"label"`
	Href     string    `json:"href"`
	Children []NavItem `json:"children,omitempty"`
}

// FooterColumn groups footer links under a heading.
type FooterColumn struct {
	Heading string `json:"heading"`
	Links   []Link `json:"links"`
}

// SocialLink points at a profile on a known network.
type SocialLink struct {
	Network string `json:"network"`
	URL     string `json:"url"`
}

// Str returns a pointer to s.  Handy when building header and footer
// literals.
func Str(s string) *string { return &s }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }
