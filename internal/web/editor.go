package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/sitebuilder/internal/content"
	"github.com/yanizio/sitebuilder/internal/head"
	"github.com/yanizio/sitebuilder/internal/metrics"
	"github.com/yanizio/sitebuilder/internal/middleware"
	"github.com/yanizio/sitebuilder/internal/render"
	"github.com/yanizio/sitebuilder/internal/requestinfo"
	"github.com/yanizio/sitebuilder/internal/selection"
	"github.com/yanizio/sitebuilder/internal/theme"
)

// editorSession returns the session named by ?session=, nil when the
// parameter is absent, and ok=false (after writing 404) when it names an
// unknown session.
func (h *Handler) editorSession(w http.ResponseWriter, r *http.Request) (e *selection.Entry, ok bool) {
	sid := r.URL.Query().Get("session")
	if sid == "" {
		return nil, true
	}
	e, ok = h.sessions.Get(sid)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return nil, false
	}
	return e, true
}

// preview renders a page in any status, drafts included, with editor
// markers on every block.  ?mode= previews another color mode.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entry, ok := h.editorSession(w, r)
	if !ok {
		return
	}

	page, err := h.store.PageByID(ctx, chi.URLParam(r, "pageID"))
	if err != nil {
		h.storeError(w, r, "preview page", err)
		return
	}
	st, err := h.store.SiteByID(ctx, page.SiteID)
	if err != nil {
		h.storeError(w, r, "preview site", err)
		return
	}
	secs, err := h.store.Sections(ctx, page.ID, "")
	if err != nil {
		h.storeError(w, r, "preview sections", err)
		return
	}

	var th *theme.Theme
	if st.ThemeID != "" {
		if th, err = h.store.ThemeByID(ctx, st.ThemeID); err != nil {
			h.log.Warn("preview theme unavailable, using built-in",
				zap.String("theme_id", st.ThemeID), zap.Error(err))
			th = nil
		}
	}

	mode := theme.ParseColorMode(st.ColorMode)
	if q := r.URL.Query().Get("mode"); q != "" {
		mode = theme.ParseColorMode(q)
	}

	var syn selection.Synchronizer = selection.Noop{}
	if entry != nil {
		syn = entry.Session
	}
	t := h.build(ctx, pageView{
		site:     *st,
		page:     *page,
		sections: secs,
		theme:    th,
		mode:     mode,
		deco:     selection.Decorator(syn),
	})

	if entry != nil {
		for _, id := range nodeIDs(t) {
			entry.Mount(selection.PanelPreview, id)
		}
	}

	hb := head.New(middleware.Nonce(ctx))
	hb.MetaName("robots", "noindex")
	hb.HTMLAttr("data-editor", "true")
	h.writeDocument(w, t, hb, *page)
	metrics.PagesRenderedTotal.WithLabelValues(metrics.SurfacePreview, requestinfo.ClassOf(ctx)).Inc()
}

// nodeIDs lists every selectable node of t in document order.
func nodeIDs(t *render.Tree) []string {
	ids := make([]string, 0, len(t.Body)+2)
	if t.Header != nil {
		ids = append(ids, t.Header.ID)
	}
	for _, n := range t.Body {
		ids = append(ids, n.ID)
	}
	if t.Footer != nil {
		ids = append(ids, t.Footer.ID)
	}
	return ids
}

type outlineResponse struct {
	Entries []render.OutlineEntry `json:"entries"`
	State   *selection.State      `json:"state,omitempty"`
}

// outline lists the page's body blocks for the outline panel.
func (h *Handler) outline(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.editorSession(w, r)
	if !ok {
		return
	}
	page, err := h.store.PageByID(r.Context(), chi.URLParam(r, "pageID"))
	if err != nil {
		h.storeError(w, r, "outline page", err)
		return
	}
	secs, err := h.store.Sections(r.Context(), page.ID, "")
	if err != nil {
		h.storeError(w, r, "outline sections", err)
		return
	}

	resp := outlineResponse{Entries: render.Outline(secs)}
	if entry != nil {
		for _, e := range resp.Entries {
			entry.Mount(selection.PanelOutline, e.ID)
		}
		st := entry.State()
		resp.State = &st
	}
	writeJSON(w, http.StatusOK, resp)
}

// overridesInput is content.Overrides with validation rules.
type overridesInput struct {
	Spacing      string `json:"spacing"      validate:"omitempty,oneof=none sm md lg xl"`
	ColorMode    string `json:"colorMode"    validate:"omitempty,oneof=inherit light dark"`
	Border       string `json:"border"       validate:"omitempty,oneof=none top bottom both"`
	ContentWidth string `json:"contentWidth" validate:"omitempty,oneof=narrow normal wide full"`
}

type sectionInput struct {
	PageID       string          `json:"pageId"           validate:"required,max=64"`
	DeclaredType string          `json:"declaredType"     validate:"required,max=64"`
	Content      json.RawMessage `json:"content"`
	Position     int             `json:"position"         validate:"gte=0"`
	Status       content.Status  `json:"status"           validate:"omitempty,oneof=draft published"`
	Overrides    *overridesInput `json:"stylingOverrides"`
}

// saveSection is the editor's autosave.  Content is stored as sent; a
// half-typed payload renders degraded, never fails the preview.
func (h *Handler) saveSection(w http.ResponseWriter, r *http.Request) {
	var in sectionInput
	if !decode(w, r, &in) {
		return
	}
	sec := content.Section{
		ID:           chi.URLParam(r, "sectionID"),
		PageID:       in.PageID,
		DeclaredType: in.DeclaredType,
		Content:      in.Content,
		Position:     in.Position,
		Status:       in.Status,
	}
	if sec.Status == "" {
		sec.Status = content.StatusDraft
	}
	if o := in.Overrides; o != nil {
		sec.Overrides = &content.Overrides{
			Spacing:      o.Spacing,
			ColorMode:    o.ColorMode,
			Border:       o.Border,
			ContentWidth: o.ContentWidth,
		}
	}
	if err := h.store.SaveSection(r.Context(), sec); err != nil {
		h.storeError(w, r, "save section", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":   sec.ID,
		"kind": sec.Kind(),
	})
}
