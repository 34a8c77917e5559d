// internal/web/handler.go
//
// HTTP surfaces of the site builder.
//
// Context
// -------
// Two audiences share one router:
//
//   - Public visitors, resolved to a tenant by Host.  They see published
//     sections only.
//   - The editor, addressed by page and session IDs.  It sees drafts,
//     renders the same pipeline with a selection decorator, and drives the
//     selection synchronizer over JSON endpoints.
//
// Workflow
// --------
//  1. chi request ID, panic recovery, request info, security headers.
//  2. /editor/... routes (JSON plus the preview document).
//  3. Everything else passes the tenant middleware and becomes a public
//     page render.
//
// Notes
// -----
//   - Editor authentication is handled upstream and is not part of this
//     package.
//   - Storage errors map to 404 for missing rows and 500 otherwise; render
//     problems never fail a request.
package web

import (
	"context"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/sitebuilder/internal/content"
	"github.com/yanizio/sitebuilder/internal/middleware"
	"github.com/yanizio/sitebuilder/internal/render"
	"github.com/yanizio/sitebuilder/internal/requestinfo"
	"github.com/yanizio/sitebuilder/internal/selection"
	"github.com/yanizio/sitebuilder/internal/site"
	"github.com/yanizio/sitebuilder/internal/tenant"
	"github.com/yanizio/sitebuilder/internal/theme"
)

// Store is the storage the handlers need.  *site.Store satisfies it.
type Store interface {
	SiteByID(ctx context.Context, id string) (*content.Site, error)
	PageBySlug(ctx context.Context, siteID, slug string) (*content.Page, error)
	PageByID(ctx context.Context, id string) (*content.Page, error)
	HomePage(ctx context.Context, siteID string) (*content.Page, error)
	Sections(ctx context.Context, pageID string, status content.Status) ([]content.Section, error)
	SaveSection(ctx context.Context, sec content.Section) error
	ThemeByID(ctx context.Context, id string) (*theme.Theme, error)
	SubmitJob(ctx context.Context, siteID, prompt, colorMode string) (*site.Job, error)
	Job(ctx context.Context, id string) (*site.Job, error)
}

var _ Store = (*site.Store)(nil)

// Deps are the collaborators a Handler needs.
type Deps struct {
	Store    Store
	Tenants  *tenant.Cache
	Pipeline *render.Pipeline
	Sessions *selection.Sessions
	Log      *zap.Logger
}

// Handler serves the public site and the editor API.
type Handler struct {
	store    Store
	tenants  *tenant.Cache
	pipe     *render.Pipeline
	sessions *selection.Sessions
	log      *zap.Logger
}

// New returns a Handler.
func New(d Deps) *Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Sessions == nil {
		d.Sessions = selection.NewSessions()
	}
	return &Handler{
		store:    d.Store,
		tenants:  d.Tenants,
		pipe:     d.Pipeline,
		sessions: d.Sessions,
		log:      d.Log,
	}
}

// Routes builds the router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestinfo.Enrich)
	r.Use(middleware.Security)

	r.Route("/editor", func(r chi.Router) {
		r.Get("/pages/{pageID}/preview", h.preview)
		r.Get("/pages/{pageID}/outline", h.outline)
		r.Put("/sections/{sectionID}", h.saveSection)

		r.Post("/sessions", h.createSession)
		r.Route("/sessions/{sid}", func(r chi.Router) {
			r.Get("/", h.getSession)
			r.Delete("/", h.closeSession)
			r.Post("/hover", h.hover)
			r.Post("/unhover", h.unhover)
			r.Post("/click", h.click)
			r.Post("/select", h.selectBlock)
			r.Post("/anchors", h.anchors)
		})

		r.Post("/sites/{siteID}/theme/generate", h.generateTheme)
		r.Get("/jobs/{jobID}", h.job)
	})

	r.Group(func(r chi.Router) {
		r.Use(tenant.Middleware(h.tenants))
		r.Get("/", h.public)
		r.Get("/{slug}", h.public)
	})
	return r
}
