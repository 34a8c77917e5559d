package web

import (
	"bytes"
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/sitebuilder/internal/content"
	"github.com/yanizio/sitebuilder/internal/head"
	"github.com/yanizio/sitebuilder/internal/merge"
	"github.com/yanizio/sitebuilder/internal/render"
	"github.com/yanizio/sitebuilder/internal/theme"
)

// pageView is what both surfaces hand to the pipeline.
type pageView struct {
	site     content.Site
	page     content.Page
	sections []content.Section
	theme    *theme.Theme
	mode     theme.ColorMode
	deco     render.Decorator
}

// build splits out chrome records, merges chrome, and renders.
func (h *Handler) build(ctx context.Context, v pageView) *render.Tree {
	parts := content.Split(v.sections)
	if len(parts.Demoted) > 0 {
		h.log.Info("extra chrome records ignored",
			zap.String("page_id", v.page.ID),
			zap.Strings("sections", parts.Demoted))
	}
	chrome := merge.PageChrome(v.site, v.page, parts.Header, parts.Footer)

	in := render.Input{
		Sections:  parts.Body,
		Header:    chrome.Header,
		Footer:    chrome.Footer,
		Theme:     v.theme,
		Mode:      v.mode,
		Decorator: v.deco,
	}
	if parts.Header != nil {
		in.HeaderID = parts.Header.ID
	}
	if parts.Footer != nil {
		in.FooterID = parts.Footer.ID
	}
	return h.pipe.Render(ctx, in)
}

// writeDocument renders t into a buffer first so a write failure
// mid-document never leaves a half page with a 200.
func (h *Handler) writeDocument(w http.ResponseWriter, t *render.Tree, hb *head.Builder, page content.Page) {
	var buf bytes.Buffer
	if err := h.pipe.Document(&buf, t, hb, page); err != nil {
		h.log.Error("document", zap.String("page_id", page.ID), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
