// internal/render/pipeline.go
//
// Page rendering pipeline.
//
// Context
// -------
// A page is an ordered list of sections plus merged header and footer
// content and a theme.  Render turns that into a Tree of HTML nodes; the
// public handler and the editor preview run the same code and differ only
// in the Decorator they pass.
//
// Workflow
// --------
//  1. Sort sections by Position (ties by ID).  Header and footer records
//     are skipped; the caller has already merged them.
//  2. For each section: resolve kind → decode payload → look up renderer →
//     render into a buffer.
//  3. Wrap the output in a <section> carrying styling overrides as data-*
//     attributes, then let the Decorator add its own.
//  4. Materialize theme declarations for the site's color mode.
//
// Notes
// -----
//   - Nothing in a single block can abort the page.  Decode failures,
//     renderer errors, and renderer panics become degraded nodes; unknown
//     kinds become placeholder nodes.  Every problem is collected in
//     Tree.Err for logging.
//   - Render is safe for concurrent use.
package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"runtime/debug"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/yanizio/sitebuilder/internal/block"
	"github.com/yanizio/sitebuilder/internal/content"
	"github.com/yanizio/sitebuilder/internal/logger"
	"github.com/yanizio/sitebuilder/internal/metrics"
	"github.com/yanizio/sitebuilder/internal/theme"
)

// Status describes how a node was produced.
type Status int

const (
	StatusOK Status = iota
	StatusDegraded
	StatusPlaceholder
)

func (s Status) String() string {
	switch s {
	case StatusDegraded:
		return "degraded"
	case StatusPlaceholder:
		return "placeholder"
	}
	return "ok"
}

// Node is one rendered, wrapped block.
type Node struct {
	ID       string
	Kind     content.Kind
	Position int
	Status   Status
	HTML     template.HTML
}

// Tree is a rendered page.
type Tree struct {
	Header *Node
	Body   []Node
	Footer *Node
	Style  theme.Declarations
	Err    error
}

// Input is everything Render needs.  Sections may arrive in any order.
type Input struct {
	Sections []content.Section
	Header   *content.HeaderContent
	Footer   *content.FooterContent
	// HeaderID and FooterID name the records the chrome came from, if
	// any, so the editor can select them.
	HeaderID  string
	FooterID  string
	Theme     *theme.Theme
	Mode      theme.ColorMode
	Decorator Decorator
}

// Pipeline renders pages.  Build one at startup and share it.
type Pipeline struct {
	reg    *block.Registry
	themes *theme.Engine
	log    *zap.Logger
}

// New returns a Pipeline.  themes and log may be nil.
func New(reg *block.Registry, themes *theme.Engine, log *zap.Logger) *Pipeline {
	if themes == nil {
		themes = theme.NewEngine(0, log)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{reg: reg, themes: themes, log: log}
}

// Render produces the page tree.  It never returns nil.  A cancelled ctx
// stops work between blocks and is reported in Tree.Err.
func (p *Pipeline) Render(ctx context.Context, in Input) *Tree {
	log := p.log
	if l, ok := logger.Lookup(ctx); ok {
		log = l
	}
	deco := in.Decorator
	if deco == nil {
		deco = Public
	}

	t := &Tree{Style: p.themes.Declarations(in.Theme, in.Mode)}

	if in.Header != nil {
		n, err := p.node(block.Block{
			ID:          ChromeHeaderID(in.HeaderID),
			Kind:        content.Kind{Primitive: content.PrimitiveHeader},
			Payload:     *in.Header,
			ColorToggle: t.Style.Mode == theme.ModeUserChoice,
		}, nil, -1, deco)
		t.Header = &n
		t.Err = multierr.Append(t.Err, err)
	}

	for _, s := range content.SortByPosition(in.Sections) {
		if err := ctx.Err(); err != nil {
			t.Err = multierr.Append(t.Err, err)
			break
		}
		kind := s.Kind()
		if isChrome(kind) {
			log.Debug("skipping chrome record in body", zap.String("section", s.ID), zap.Stringer("kind", kind))
			continue
		}
		payload, derr := content.Decode(kind, s.Content)
		if derr != nil {
			derr = fmt.Errorf("section %s: %w", s.ID, derr)
		}
		n, err := p.node(block.Block{ID: s.ID, Kind: kind, Payload: payload}, s.Overrides, s.Position, deco)
		if derr != nil && n.Status == StatusOK {
			n.Status = StatusDegraded
			metrics.DegradedBlocksTotal.WithLabelValues(kind.Primitive).Inc()
		}
		t.Body = append(t.Body, n)
		t.Err = multierr.Combine(t.Err, derr, err)
	}

	if in.Footer != nil {
		n, err := p.node(block.Block{
			ID:      ChromeFooterID(in.FooterID),
			Kind:    content.Kind{Primitive: content.PrimitiveFooter},
			Payload: *in.Footer,
		}, nil, -1, deco)
		t.Footer = &n
		t.Err = multierr.Append(t.Err, err)
	}

	for _, e := range multierr.Errors(t.Err) {
		log.Warn("block rendered with problems", zap.Error(e))
	}
	return t
}

// node renders one block and wraps it.
func (p *Pipeline) node(b block.Block, ov *content.Overrides, pos int, deco Decorator) (Node, error) {
	id, kind := b.ID, b.Kind
	n := Node{ID: id, Kind: kind, Position: pos, Status: StatusOK}

	rend, ok := p.reg.Lookup(kind)
	if !ok {
		n.Status = StatusPlaceholder
		metrics.PlaceholderBlocksTotal.WithLabelValues(kind.Primitive).Inc()
	}

	inner, err := safeRender(rend, b)
	if err != nil {
		err = fmt.Errorf("section %s (%s): %w", id, kind, err)
		n.Status = StatusDegraded
		metrics.DegradedBlocksTotal.WithLabelValues(kind.Primitive).Inc()
		inner, _ = safeRender(p.reg.Degraded(), b)
	} else if !ok {
		err = fmt.Errorf("section %s: no renderer for %s", id, kind)
	}

	w := newWrapper(id, kind, n.Status, ov)
	deco.Decorate(w)
	n.HTML = w.html(inner)
	return n, err
}

// safeRender runs r and turns a panic into an error.
func safeRender(r block.Renderer, b block.Block) (out template.HTML, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out = ""
			err = fmt.Errorf("renderer panic: %v\n%s", rec, debug.Stack())
		}
	}()
	var buf bytes.Buffer
	if err := r.Render(&buf, b); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func isChrome(k content.Kind) bool {
	return k.Primitive == content.PrimitiveHeader || k.Primitive == content.PrimitiveFooter
}

// ChromeHeaderID is the node ID used for the page header.  It is the
// record ID when the header came from a record.
func ChromeHeaderID(recordID string) string {
	if recordID != "" {
		return recordID
	}
	return "site-header"
}

// ChromeFooterID is ChromeHeaderID for the footer.
func ChromeFooterID(recordID string) string {
	if recordID != "" {
		return recordID
	}
	return "site-footer"
}
