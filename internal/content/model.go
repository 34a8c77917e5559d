// internal/content/model.go
//
// Content records and their owners.
//
// Context
// -------
// A Site owns Pages, a Page owns Sections.  A Section is one stored block:
// its declared type may come from either the legacy or the current block
// vocabulary, and its Content is the raw JSON payload exactly as persisted.
// Nothing outside this package inspects Content before Resolve has turned
// the declared type into a Kind.
//
// Notes
// -----
//   - Position orders sections within a page.  It is unique per page but
//     not necessarily contiguous.
//   - Header and footer override payloads share one shape at site, page,
//     and section level (see chrome.go).
package content

import (
	"encoding/json"
	"time"
)

// Status is the publication state shared by pages and sections.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Section is one content record ("block") of a page.
type Section struct {
	ID           string          `json:"id"           db:"id"`
	PageID       string          `json:"pageId"       db:"page_id"`
	DeclaredType string          `json:"declaredType" db:"declared_type"`
	Content      json.RawMessage `json:"content"      db:"content"`
	Position     int             `json:"position"     db:"position"`
	Status       Status          `json:"status"       db:"status"`
	Overrides    *Overrides      `json:"stylingOverrides,omitempty" db:"-"`
}

// Kind resolves the section's declared type.  Shorthand for Resolve.
func (s Section) Kind() Kind { return Resolve(s.DeclaredType, s.Content) }

// Overrides carries optional per-block styling.  Empty strings mean
// "inherit".  Values outside the documented sets are ignored by renderers.
type Overrides struct {
	Spacing      string `json:"spacing,omitempty"`      // none|sm|md|lg|xl
	ColorMode    string `json:"colorMode,omitempty"`    // inherit|light|dark
	Border       string `json:"border,omitempty"`       // none|top|bottom|both
	ContentWidth string `json:"contentWidth,omitempty"` // narrow|normal|wide|full
}

// SEO groups the page metadata emitted into <head>.
type SEO struct {
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	OGImage      string `json:"ogImage,omitempty"`
	CanonicalURL string `json:"canonicalUrl,omitempty"`
	NoIndex      bool   `json:"noIndex,omitempty"`
}

// Page belongs to a Site.  Header and Footer are optional page-level
// overrides of the site baseline.
type Page struct {
	ID        string         `json:"id"`
	SiteID    string         `json:"siteId"`
	Slug      string         `json:"slug"`
	Title     string         `json:"title"`
	Status    Status         `json:"status"`
	IsHome    bool           `json:"isHome"`
	Header    *HeaderContent `json:"header,omitempty"`
	Footer    *FooterContent `json:"footer,omitempty"`
	SEO       SEO            `json:"seo"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Site is the root of a tenant's published presence.
type Site struct {
	ID             string         `json:"id"`
	Slug           string         `json:"slug"`
	Host           string         `json:"host"`
	CustomDomain   string         `json:"customDomain,omitempty"`
	DomainVerified bool           `json:"domainVerified"`
	Title          string         `json:"title"`
	Header         *HeaderContent `json:"header,omitempty"`
	Footer         *FooterContent `json:"footer,omitempty"`
	ColorMode      string         `json:"colorMode"`
	ThemeID        string         `json:"themeId,omitempty"`
}
