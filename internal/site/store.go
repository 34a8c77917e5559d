// internal/site/store.go
//
// sqlx repository for sites, pages, sections, themes, and generation
// jobs.  Every method takes a context so lookups respect request
// deadlines.  A missing row is reported as ErrNotFound; other errors are
// wrapped with the operation name.
package site

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/sitebuilder/internal/content"
	"github.com/yanizio/sitebuilder/internal/theme"
)

// ErrNotFound is returned when a lookup matches no live row.
var ErrNotFound = errors.New("site: not found")

// Store reads and writes site builder rows.
type Store struct {
	db  *sqlx.DB
	log *zap.Logger
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for rows that load with problems.
func WithLogger(l *zap.Logger) Option { return func(s *Store) { s.log = l } }

// NewStore wraps an open pool.
func NewStore(db *sqlx.DB, opts ...Option) *Store {
	s := &Store{db: db, log: zap.NewNop(), now: func() time.Time { return time.Now().UTC() }}
	for _, o := range opts {
		o(s)
	}
	return s
}

func wrap(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

const siteCols = `id, slug, host, custom_domain, domain_verified, title,
               header, footer, color_mode, theme_id`

// SiteByHost returns the live site served on host, matching either the
// platform host or a verified custom domain.
func (s *Store) SiteByHost(ctx context.Context, host string) (*content.Site, error) {
	const q = `
        SELECT ` + siteCols + `
        FROM   site
        WHERE  (host = ? OR (custom_domain = ? AND domain_verified = 1))
          AND  suspended_at IS NULL
          AND  deleted_at   IS NULL
        LIMIT  1`
	var r siteRow
	if err := s.db.GetContext(ctx, &r, q, host, host); err != nil {
		return nil, wrap("site by host", err)
	}
	site := r.site()
	return &site, nil
}

// SiteByID returns a live site.
func (s *Store) SiteByID(ctx context.Context, id string) (*content.Site, error) {
	const q = `
        SELECT ` + siteCols + `
        FROM   site
        WHERE  id = ?
          AND  suspended_at IS NULL
          AND  deleted_at   IS NULL`
	var r siteRow
	if err := s.db.GetContext(ctx, &r, q, id); err != nil {
		return nil, wrap("site by id", err)
	}
	site := r.site()
	return &site, nil
}

// ActiveSites counts sites that are neither suspended nor deleted.
func (s *Store) ActiveSites(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `
        SELECT COUNT(*) FROM site
        WHERE  suspended_at IS NULL AND deleted_at IS NULL`)
	if err != nil {
		return 0, wrap("active sites", err)
	}
	return n, nil
}

const pageCols = `id, site_id, slug, title, status, is_home, header, footer, seo, updated_at`

// PageBySlug returns a page of siteID in any status.
func (s *Store) PageBySlug(ctx context.Context, siteID, slug string) (*content.Page, error) {
	const q = `SELECT ` + pageCols + ` FROM page WHERE site_id = ? AND slug = ? LIMIT 1`
	return s.page(ctx, "page by slug", q, siteID, slug)
}

// PageByID returns a page in any status.
func (s *Store) PageByID(ctx context.Context, id string) (*content.Page, error) {
	const q = `SELECT ` + pageCols + ` FROM page WHERE id = ?`
	return s.page(ctx, "page by id", q, id)
}

// HomePage returns the page flagged as the site's home page.
func (s *Store) HomePage(ctx context.Context, siteID string) (*content.Page, error) {
	const q = `SELECT ` + pageCols + ` FROM page WHERE site_id = ? AND is_home = 1 LIMIT 1`
	return s.page(ctx, "home page", q, siteID)
}

func (s *Store) page(ctx context.Context, op, q string, args ...any) (*content.Page, error) {
	var r pageRow
	if err := s.db.GetContext(ctx, &r, q, args...); err != nil {
		return nil, wrap(op, err)
	}
	p := r.page()
	return &p, nil
}

// Sections returns a page's sections ordered by position.  An empty
// status returns every section (the editor's view).
func (s *Store) Sections(ctx context.Context, pageID string, status content.Status) ([]content.Section, error) {
	q := `
        SELECT id, page_id, declared_type, content, position, status, styling_overrides
        FROM   section
        WHERE  page_id = ?`
	args := []any{pageID}
	if status != "" {
		q += ` AND status = ?`
		args = append(args, string(status))
	}
	q += ` ORDER BY position, id`

	var rows []sectionRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, wrap("sections", err)
	}
	out := make([]content.Section, len(rows))
	for i, r := range rows {
		sec, err := r.section()
		if err != nil {
			s.log.Warn("section loaded without styling overrides",
				zap.String("section_id", r.ID),
				zap.String("page_id", pageID),
				zap.Error(err))
		}
		out[i] = sec
	}
	return out, nil
}

// SaveSection inserts or replaces a section.  Autosave sends partial
// content freely; the renderer copes with it.
func (s *Store) SaveSection(ctx context.Context, sec content.Section) error {
	const q = `
        INSERT INTO section
               (id, page_id, declared_type, content, position, status, styling_overrides)
        VALUES (:id, :page_id, :declared_type, :content, :position, :status, :styling_overrides)
        ON DUPLICATE KEY UPDATE
               declared_type     = VALUES(declared_type),
               content           = VALUES(content),
               position          = VALUES(position),
               status            = VALUES(status),
               styling_overrides = VALUES(styling_overrides)`
	raw := sec.Content
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	row := map[string]any{
		"id":                sec.ID,
		"page_id":           sec.PageID,
		"declared_type":     sec.DeclaredType,
		"content":           []byte(raw),
		"position":          sec.Position,
		"status":            string(sec.Status),
		"styling_overrides": JSONOf(sec.Overrides),
	}
	if _, err := s.db.NamedExecContext(ctx, q, row); err != nil {
		return wrap("save section", err)
	}
	return nil
}

// ThemeByID loads a theme document.
func (s *Store) ThemeByID(ctx context.Context, id string) (*theme.Theme, error) {
	const q = `
        SELECT id, site_id, version, tokens, generated_at, provider, model
        FROM   theme
        WHERE  id = ?`
	var r themeRow
	if err := s.db.GetContext(ctx, &r, q, id); err != nil {
		return nil, wrap("theme by id", err)
	}
	return r.theme(), nil
}

// SubmitJob queues a theme generation request and returns it with its ID
// and timestamps filled in.
func (s *Store) SubmitJob(ctx context.Context, siteID, prompt, colorMode string) (*Job, error) {
	now := s.now()
	j := &Job{
		ID:        uuid.NewString(),
		SiteID:    siteID,
		Status:    JobQueued,
		Prompt:    prompt,
		ColorMode: colorMode,
		CreatedAt: now,
		UpdatedAt: now,
	}
	const q = `
        INSERT INTO generation_job
               (id, site_id, status, prompt, color_mode, created_at, updated_at)
        VALUES (:id, :site_id, :status, :prompt, :color_mode, :created_at, :updated_at)`
	if _, err := s.db.NamedExecContext(ctx, q, j); err != nil {
		return nil, wrap("submit job", err)
	}
	return j, nil
}

// Job returns a generation job.
func (s *Store) Job(ctx context.Context, id string) (*Job, error) {
	const q = `
        SELECT id, site_id, status, prompt, color_mode, error, theme_id, created_at, updated_at
        FROM   generation_job
        WHERE  id = ?`
	var j Job
	if err := s.db.GetContext(ctx, &j, q, id); err != nil {
		return nil, wrap("job", err)
	}
	return &j, nil
}
