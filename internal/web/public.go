package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/yanizio/sitebuilder/internal/content"
	"github.com/yanizio/sitebuilder/internal/head"
	"github.com/yanizio/sitebuilder/internal/metrics"
	"github.com/yanizio/sitebuilder/internal/middleware"
	"github.com/yanizio/sitebuilder/internal/render"
	"github.com/yanizio/sitebuilder/internal/requestinfo"
	"github.com/yanizio/sitebuilder/internal/site"
	"github.com/yanizio/sitebuilder/internal/tenant"
	"github.com/yanizio/sitebuilder/internal/theme"
)

// public renders a published page of the request's tenant.  A slug that
// is not in canonical form redirects to the canonical one.
func (h *Handler) public(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ten := tenant.FromContext(ctx)
	if ten == nil {
		http.NotFound(w, r)
		return
	}

	var (
		page *content.Page
		err  error
	)
	raw := chi.URLParam(r, "slug")
	if raw == "" {
		page, err = h.store.HomePage(ctx, ten.Site.ID)
	} else {
		norm := slug.Make(raw)
		if norm == "" {
			http.NotFound(w, r)
			return
		}
		if norm != raw {
			target := "/" + norm
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}
		page, err = h.store.PageBySlug(ctx, ten.Site.ID, norm)
	}
	if err != nil {
		h.pageError(w, r, err)
		return
	}
	if page.Status != content.StatusPublished {
		http.NotFound(w, r)
		return
	}

	secs, err := h.store.Sections(ctx, page.ID, content.StatusPublished)
	if err != nil {
		h.pageError(w, r, err)
		return
	}

	mode := ten.Mode()
	t := h.build(ctx, pageView{
		site:     ten.Site,
		page:     *page,
		sections: secs,
		theme:    ten.Theme,
		mode:     mode,
		deco:     render.Public,
	})

	hb := head.New(middleware.Nonce(ctx))
	if mode == theme.ModeUserChoice {
		// The pre-paint script corrects a stale cookie; setting the
		// attribute here avoids a flash for returning visitors.
		if c, err := r.Cookie(theme.StorageKey); err == nil {
			if v := strings.ToLower(c.Value); v == string(theme.ModeDark) || v == string(theme.ModeLight) {
				hb.HTMLAttr(theme.ThemeAttr, v)
			}
		}
		w.Header().Add("Vary", "Cookie")
	}

	h.writeDocument(w, t, hb, *page)
	metrics.PagesRenderedTotal.WithLabelValues(metrics.SurfacePublic, requestinfo.ClassOf(ctx)).Inc()
}

// pageError is storeError for HTML surfaces.
func (h *Handler) pageError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, site.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	h.log.Error("public page", zap.String("path", r.URL.Path), zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
