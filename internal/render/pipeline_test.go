package render

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/yanizio/sitebuilder/internal/block"
	"github.com/yanizio/sitebuilder/internal/content"
	"github.com/yanizio/sitebuilder/internal/head"
	"github.com/yanizio/sitebuilder/internal/theme"
)

func newPipeline(t *testing.T, opts ...block.Option) *Pipeline {
	t.Helper()
	reg, err := block.New(opts...)
	require.NoError(t, err)
	return New(reg, theme.NewEngine(16, nil), nil)
}

func sec(id, typ string, pos int, payload string) content.Section {
	return content.Section{ID: id, DeclaredType: typ, Position: pos, Content: json.RawMessage(payload), Status: content.StatusPublished}
}

func ids(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

// Sections stored at positions 3, 1, 2 render as 1, 2, 3.
func TestRender_OrdersByPosition(t *testing.T) {
	p := newPipeline(t)
	tree := p.Render(context.Background(), Input{Sections: []content.Section{
		sec("c", "contact", 3, `{"heading":"Third"}`),
		sec("a", "hero", 1, `{"heading":"First"}`),
		sec("b", "features", 2, `{"heading":"Second","items":[]}`),
	}})

	require.NoError(t, tree.Err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(tree.Body))
	assert.Equal(t, []int{1, 2, 3}, []int{tree.Body[0].Position, tree.Body[1].Position, tree.Body[2].Position})
	assert.Contains(t, string(tree.Body[0].HTML), "First")
}

func TestRender_SkipsChromeRecordsInBody(t *testing.T) {
	p := newPipeline(t)
	tree := p.Render(context.Background(), Input{Sections: []content.Section{
		sec("h", "header", 0, `{}`),
		sec("x", "text", 1, `{"html":"<p>x</p>"}`),
		sec("f", "footer", 9, `{}`),
	}})
	assert.Equal(t, []string{"x"}, ids(tree.Body))
	assert.Nil(t, tree.Header)
	assert.Nil(t, tree.Footer)
}

func TestRender_UnknownKindIsPlaceholder(t *testing.T) {
	p := newPipeline(t)
	var tree *Tree
	require.NotPanics(t, func() {
		tree = p.Render(context.Background(), Input{Sections: []content.Section{
			sec("a", "pricing_table", 1, `{"tiers":[1,2]}`),
			sec("b", "hero", 2, `{"heading":"Still here"}`),
		}})
	})
	require.Len(t, tree.Body, 2)
	assert.Equal(t, StatusPlaceholder, tree.Body[0].Status)
	assert.Contains(t, string(tree.Body[0].HTML), "pricing_table")
	assert.Contains(t, string(tree.Body[0].HTML), `data-status="placeholder"`)
	assert.Equal(t, StatusOK, tree.Body[1].Status)
	assert.Contains(t, string(tree.Body[1].HTML), "Still here")
	assert.Len(t, multierr.Errors(tree.Err), 1)
}

func TestRender_MalformedPayloadIsDegraded(t *testing.T) {
	p := newPipeline(t)
	tree := p.Render(context.Background(), Input{Sections: []content.Section{
		sec("a", "features", 1, `{"items":"not-a-list"}`),
	}})
	require.Len(t, tree.Body, 1)
	assert.Equal(t, StatusDegraded, tree.Body[0].Status)
	assert.Error(t, tree.Err)
}

func TestRender_RendererPanicIsContained(t *testing.T) {
	boom := block.RendererFunc(func(io.Writer, block.Block) error { panic("boom") })
	fail := block.RendererFunc(func(io.Writer, block.Block) error { return errors.New("nope") })
	p := newPipeline(t,
		block.WithRenderer(block.Key{Primitive: content.PrimitiveHero, Preset: "full"}, boom),
		block.WithRenderer(block.Key{Primitive: content.PrimitiveContact}, fail),
	)

	tree := p.Render(context.Background(), Input{Sections: []content.Section{
		sec("a", "hero", 1, `{"heading":"x"}`),
		sec("b", "contact", 2, `{}`),
		sec("c", "text", 3, `{"html":"<p>ok</p>"}`),
	}})
	require.Len(t, tree.Body, 3)
	assert.Equal(t, StatusDegraded, tree.Body[0].Status)
	assert.Contains(t, string(tree.Body[0].HTML), "could not be displayed")
	assert.Equal(t, StatusDegraded, tree.Body[1].Status)
	assert.Equal(t, StatusOK, tree.Body[2].Status)
	assert.Len(t, multierr.Errors(tree.Err), 2)
}

func TestRender_OverridesBecomeAttributes(t *testing.T) {
	p := newPipeline(t)
	s := sec("a", "hero", 1, `{"heading":"x"}`)
	s.Overrides = &content.Overrides{Spacing: "lg", ColorMode: "dark", Border: "top", ContentWidth: `wide"><script>`}
	inherit := sec("b", "hero", 2, `{"heading":"y"}`)
	inherit.Overrides = &content.Overrides{ColorMode: "inherit"}

	tree := p.Render(context.Background(), Input{Sections: []content.Section{s, inherit}})
	out := string(tree.Body[0].HTML)
	assert.Contains(t, out, `data-spacing="lg"`)
	assert.Contains(t, out, `data-color-mode="dark"`)
	assert.Contains(t, out, `data-border="top"`)
	assert.Contains(t, out, `data-width="widescript"`)
	assert.Regexp(t, regexp.MustCompile(`^<section class="blk blk-hero_primitive blk-hero_primitive--full" id="blk-a"`), out)
	assert.NotContains(t, string(tree.Body[1].HTML), "data-color-mode")
}

func TestRender_DecoratorAndChrome(t *testing.T) {
	p := newPipeline(t)
	var seen []string
	deco := DecoratorFunc(func(w *Wrapper) {
		seen = append(seen, w.ID)
		w.Set("data-block-id", w.ID)
		w.AddClass("is-editable")
	})
	tree := p.Render(context.Background(), Input{
		Sections:  []content.Section{sec("a", "text", 1, `{"html":"<p>hi</p>"}`)},
		Header:    &content.HeaderContent{SiteName: content.Str("Acme")},
		Footer:    &content.FooterContent{Copyright: content.Str("© Acme")},
		FooterID:  "ftr-1",
		Decorator: deco,
	})
	assert.Equal(t, []string{"site-header", "a", "ftr-1"}, seen)
	require.NotNil(t, tree.Header)
	require.NotNil(t, tree.Footer)
	assert.True(t, strings.HasPrefix(string(tree.Header.HTML), "<header "))
	assert.Contains(t, string(tree.Footer.HTML), "© Acme")
	assert.Contains(t, string(tree.Body[0].HTML), `data-block-id="a"`)
	assert.Contains(t, string(tree.Body[0].HTML), "is-editable")
}

func TestRender_PublicAddsNothing(t *testing.T) {
	p := newPipeline(t)
	tree := p.Render(context.Background(), Input{Sections: []content.Section{sec("a", "text", 1, `{}`)}})
	assert.NotContains(t, string(tree.Body[0].HTML), "data-block-id")
}

func TestRender_CancelledContext(t *testing.T) {
	p := newPipeline(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tree := p.Render(ctx, Input{Sections: []content.Section{sec("a", "text", 1, `{}`)}})
	assert.Empty(t, tree.Body)
	assert.ErrorIs(t, tree.Err, context.Canceled)
}

func TestRender_StyleCarriesBothPalettes(t *testing.T) {
	p := newPipeline(t)
	tree := p.Render(context.Background(), Input{Mode: theme.ModeSystem})
	assert.Len(t, tree.Style.Light, 8)
	assert.Len(t, tree.Style.Dark, 8)
	assert.True(t, tree.Style.Substituted)
}

func TestDocument_UserChoiceScriptRunsBeforeStyles(t *testing.T) {
	p := newPipeline(t)
	tree := p.Render(context.Background(), Input{
		Sections: []content.Section{sec("a", "hero", 1, `{"heading":"Hi"}`)},
		Mode:     theme.ModeUserChoice,
	})
	h := head.New("abc")
	h.HTMLAttr("lang", "en")

	var b strings.Builder
	require.NoError(t, p.Document(&b, tree, h, content.Page{
		Title: "Home",
		SEO:   content.SEO{Description: "Welcome", NoIndex: true},
	}))
	out := b.String()

	script := strings.Index(out, `<script nonce="abc">`)
	style := strings.Index(out, `<style nonce="abc">`)
	require.GreaterOrEqual(t, script, 0)
	assert.Greater(t, style, script)
	assert.Less(t, script, strings.Index(out, "</head>"))
	assert.Contains(t, out, `<html lang="en">`)
	assert.Contains(t, out, "<title>Home</title>")
	assert.Contains(t, out, `content="noindex"`)
	assert.Contains(t, out, `:root[data-theme="dark"]`)
	assert.Contains(t, out, "<main>")
}

func TestDocument_LightModeHasNoScript(t *testing.T) {
	p := newPipeline(t)
	tree := p.Render(context.Background(), Input{Mode: theme.ModeLight})
	var b strings.Builder
	require.NoError(t, p.Document(&b, tree, nil, content.Page{Title: "x"}))
	assert.NotContains(t, b.String(), "<script")
}

func TestDocument_UserChoiceHeaderHasToggle(t *testing.T) {
	p := newPipeline(t)
	page := func(mode theme.ColorMode) string {
		tree := p.Render(context.Background(), Input{
			Header: &content.HeaderContent{SiteName: content.Str("Acme")},
			Mode:   mode,
		})
		require.NoError(t, tree.Err)
		var b strings.Builder
		require.NoError(t, p.Document(&b, tree, nil, content.Page{Title: "x"}))
		return b.String()
	}

	out := page(theme.ModeUserChoice)
	assert.Contains(t, out, `<button type="button" class="color-mode-toggle" data-color-mode-toggle`)
	assert.Contains(t, out, `addEventListener("click",window.toggleColorMode)`)
	assert.Less(t, strings.Index(out, "DOMContentLoaded"), strings.Index(out, "data-color-mode-toggle aria-label"))

	for _, mode := range []theme.ColorMode{theme.ModeLight, theme.ModeDark, theme.ModeSystem} {
		assert.NotContains(t, page(mode), "<button", "mode %s", mode)
	}
}

func TestOutline(t *testing.T) {
	entries := Outline([]content.Section{
		sec("c", "markdown", 3, `{"markdown":"## Pricing plans\n\nbody"}`),
		sec("h", "header", 0, `{}`),
		sec("a", "hero", 1, `{"heading":"Welcome"}`),
		sec("b", "gallery", 2, `{}`),
		sec("d", "text", 4, `{"html":"<p>Hello <b>world</b></p>"}`),
	})
	require.Len(t, entries, 4)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "Welcome", entries[0].Label)
	assert.Equal(t, "media/gallery", entries[1].Label)
	assert.Equal(t, "Pricing plans", entries[2].Label)
	assert.Equal(t, "Hello world", entries[3].Label)
	assert.Equal(t, content.Kind{Primitive: content.PrimitiveRichText, Preset: "markdown"}, entries[2].Kind)
}

func TestOutline_VisualLabelUsesText(t *testing.T) {
	cases := map[string]string{
		`<p><a title="a>b" href="/x">Hello</a></p>`:           "Hello",
		`<h2>Our <em>story</em></h2><p>Since 1999</p>`:        "Our story Since 1999",
		`<style>p{color:red}</style><script>x()</script><p>Hi`: "Hi",
		`<p>Fish &amp; chips</p>`:                             "Fish & chips",
		`<p>w<b>or</b>ld</p>`:                                 "world",
		`<p>   </p>`:                                          "richtext/visual",
	}
	for in, want := range cases {
		body, err := json.Marshal(map[string]string{"html": in})
		require.NoError(t, err)
		entries := Outline([]content.Section{sec("v", "text", 0, string(body))})
		require.Len(t, entries, 1)
		assert.Equal(t, want, entries[0].Label, "html %q", in)
	}
}
