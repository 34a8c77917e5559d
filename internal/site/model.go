// internal/site/model.go
//
// Row shapes for the site builder tables and their conversion into the
// content and theme types.
//
// Tables
// ------
//   - site            one row per tenant site; header/footer JSON baseline.
//   - page            belongs to a site; optional header/footer overrides.
//   - section         one block of a page; raw JSON content.
//   - theme           generated design tokens, one JSON document per row.
//   - generation_job  queued theme generation requests.
//
// A site is served when neither suspended_at nor deleted_at is set.
package site

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yanizio/sitebuilder/internal/content"
	"github.com/yanizio/sitebuilder/internal/theme"
)

type siteRow struct {
	ID             string                      `db:"id"`
	Slug           string                      `db:"slug"`
	Host           string                      `db:"host"`
	CustomDomain   sql.NullString              `db:"custom_domain"`
	DomainVerified bool                        `db:"domain_verified"`
	Title          string                      `db:"title"`
	Header         JSON[content.HeaderContent] `db:"header"`
	Footer         JSON[content.FooterContent] `db:"footer"`
	ColorMode      string                      `db:"color_mode"`
	ThemeID        sql.NullString              `db:"theme_id"`
}

func (r siteRow) site() content.Site {
	return content.Site{
		ID:             r.ID,
		Slug:           r.Slug,
		Host:           r.Host,
		CustomDomain:   r.CustomDomain.String,
		DomainVerified: r.DomainVerified,
		Title:          r.Title,
		Header:         r.Header.Ptr(),
		Footer:         r.Footer.Ptr(),
		ColorMode:      r.ColorMode,
		ThemeID:        r.ThemeID.String,
	}
}

type pageRow struct {
	ID        string                      `db:"id"`
	SiteID    string                      `db:"site_id"`
	Slug      string                      `db:"slug"`
	Title     string                      `db:"title"`
	Status    string                      `db:"status"`
	IsHome    bool                        `db:"is_home"`
	Header    JSON[content.HeaderContent] `db:"header"`
	Footer    JSON[content.FooterContent] `db:"footer"`
	SEO       JSON[content.SEO]           `db:"seo"`
	UpdatedAt time.Time                   `db:"updated_at"`
}

func (r pageRow) page() content.Page {
	return content.Page{
		ID:        r.ID,
		SiteID:    r.SiteID,
		Slug:      r.Slug,
		Title:     r.Title,
		Status:    content.Status(r.Status),
		IsHome:    r.IsHome,
		Header:    r.Header.Ptr(),
		Footer:    r.Footer.Ptr(),
		SEO:       r.SEO.V,
		UpdatedAt: r.UpdatedAt,
	}
}

type sectionRow struct {
	ID           string                  `db:"id"`
	PageID       string                  `db:"page_id"`
	DeclaredType string                  `db:"declared_type"`
	Content      []byte                  `db:"content"`
	Position     int                     `db:"position"`
	Status       string                  `db:"status"`
	Overrides    []byte `db:"styling_overrides"`
}

// section converts the row.  Overrides that do not decode are dropped and
// reported so one bad row never fails a page.
func (r sectionRow) section() (content.Section, error) {
	sec := content.Section{
		ID:           r.ID,
		PageID:       r.PageID,
		DeclaredType: r.DeclaredType,
		Content:      json.RawMessage(r.Content),
		Position:     r.Position,
		Status:       content.Status(r.Status),
	}
	if len(r.Overrides) == 0 || string(r.Overrides) == "null" {
		return sec, nil
	}
	var ov content.Overrides
	if err := json.Unmarshal(r.Overrides, &ov); err != nil {
		return sec, fmt.Errorf("section %s: styling overrides: %w", r.ID, err)
	}
	sec.Overrides = &ov
	return sec, nil
}

type themeRow struct {
	ID          string            `db:"id"`
	SiteID      string            `db:"site_id"`
	Version     int               `db:"version"`
	Tokens      JSON[theme.Theme] `db:"tokens"`
	GeneratedAt time.Time         `db:"generated_at"`
	Provider    sql.NullString    `db:"provider"`
	Model       sql.NullString    `db:"model"`
}

func (r themeRow) theme() *theme.Theme {
	t := r.Tokens.V
	t.ID = r.ID
	t.Version = r.Version
	t.GeneratedAt = r.GeneratedAt
	if r.Provider.Valid {
		t.Provider = r.Provider.String
	}
	if r.Model.Valid {
		t.Model = r.Model.String
	}
	return &t
}

// JobStatus is the lifecycle of a generation job.
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Job is a queued theme generation request.  The generator itself runs
// out of process and reports back through this table.
type Job struct {
	ID        string         `db:"id"         json:"id"`
	SiteID    string         `db:"site_id"    json:"siteId"`
	Status    JobStatus      `db:"status"     json:"status"`
	Prompt    string         `db:"prompt"     json:"prompt"`
	ColorMode string         `db:"color_mode" json:"colorMode,omitempty"`
	Error     sql.NullString `db:"error"      json:"-"`
	ThemeID   sql.NullString `db:"theme_id"   json:"-"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time      `db:"updated_at" json:"updatedAt"`
}
