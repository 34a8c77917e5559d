// internal/head/builder.go
//
// The Builder collects everything that should appear inside a page’s
// <head> element, plus the attributes of the <html> element itself.  It is
// scoped to a single render call.  The public handler and the editor
// preview push tags into the builder, then render.Document decides where
// to emit each slice.
//
// Features
// --------
//   - SetTitle           – single <title> tag (last call wins).
//   - Meta, Link         – arbitrary tags with deduplication.
//   - HTMLAttr           – attributes on <html> (data-theme, lang).
//   - InlineScript       – scripts that must run before first paint; always
//     emitted ahead of styles and carrying the request’s CSP nonce.
//   - Style              – inline <style> blocks (theme declarations).
//   - JSONLD             – raw JSON-LD wrapped in a typed <script>.
//
// Notes
// -----
//   - Values passed to Meta and Link are pre-built tags and are trusted.
//     Use MetaName / MetaProperty / Canonical for content that came from
//     the database.
package head

import (
	"html/template"
	"sort"
	"strings"
	"sync"
)

// Builder is safe for concurrent writes; typical use is one goroutine per
// request.
type Builder struct {
	mu sync.Mutex

	title string
	nonce string
	attrs map[string]string

	metas   []string
	links   []string
	inline  []string
	styles  []string
	scripts []string
	jsonLD  []string

	seen map[string]struct{}
}

// New returns a Builder.  nonce may be empty when no CSP is in force.
func New(nonce string) *Builder {
	return &Builder{
		nonce: nonce,
		attrs: make(map[string]string),
		seen:  make(map[string]struct{}),
	}
}

// Nonce is the CSP nonce stamped on inline scripts and styles.
func (b *Builder) Nonce() string { return b.nonce }

// SetTitle overrides the page <title>.  The last caller wins.
func (b *Builder) SetTitle(t string) {
	b.mu.Lock()
	b.title = t
	b.mu.Unlock()
}

// Title returns a fully formed <title> tag or an empty string.
func (b *Builder) Title() template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.title == "" {
		return ""
	}
	return template.HTML("<title>" + template.HTMLEscapeString(b.title) + "</title>")
}

// HTMLAttr sets an attribute on the <html> element.  An empty value
// removes it.
func (b *Builder) HTMLAttr(name, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if value == "" {
		delete(b.attrs, name)
		return
	}
	b.attrs[name] = value
}

// Attrs renders the <html> attributes in name order, each with a leading
// space.
func (b *Builder) Attrs() template.HTMLAttr {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, 0, len(b.attrs))
	for n := range b.attrs {
		names = append(names, n)
	}
	sort.Strings(names)
	var sb strings.Builder
	for _, n := range names {
		sb.WriteString(" " + template.HTMLEscapeString(n) + `="` + template.HTMLEscapeString(b.attrs[n]) + `"`)
	}
	return template.HTMLAttr(sb.String())
}

func (b *Builder) Meta(tag string)   { b.add("meta:"+tag, &b.metas, tag) }
func (b *Builder) Link(tag string)   { b.add("link:"+tag, &b.links, tag) }
func (b *Builder) Script(tag string) { b.add("script:"+tag, &b.scripts, tag) }
func (b *Builder) JSONLD(js string)  { b.add("jsonld:"+hash(js), &b.jsonLD, js) }

// InlineScript queues JavaScript source that runs before first paint.
func (b *Builder) InlineScript(js string) {
	if strings.TrimSpace(js) == "" {
		return
	}
	b.add("inline:"+hash(js), &b.inline, js)
}

// Style queues a CSS body for an inline <style> element.
func (b *Builder) Style(css string) {
	if strings.TrimSpace(css) == "" {
		return
	}
	b.add("style:"+hash(css), &b.styles, css)
}

// MetaName adds <meta name=… content=…> with both values escaped.
func (b *Builder) MetaName(name, content string) {
	if content == "" {
		return
	}
	b.Meta(`<meta name="` + template.HTMLEscapeString(name) + `" content="` + template.HTMLEscapeString(content) + `">`)
}

// MetaProperty is MetaName for Open Graph style property= tags.
func (b *Builder) MetaProperty(prop, content string) {
	if content == "" {
		return
	}
	b.Meta(`<meta property="` + template.HTMLEscapeString(prop) + `" content="` + template.HTMLEscapeString(content) + `">`)
}

// Canonical adds a rel=canonical link.
func (b *Builder) Canonical(href string) {
	if href == "" {
		return
	}
	b.Link(`<link rel="canonical" href="` + template.HTMLEscapeString(href) + `">`)
}

func (b *Builder) add(key string, tgt *[]string, tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

// hash creates a short, stable key for long bodies.
func hash(s string) string {
	if len(s) > 64 {
		return s[:64]
	}
	return s
}

func (b *Builder) Metas() template.HTML   { return b.concat(b.metas) }
func (b *Builder) Links() template.HTML   { return b.concat(b.links) }
func (b *Builder) Scripts() template.HTML { return b.concat(b.scripts) }

// InlineScripts returns queued pre-paint scripts wrapped in <script> tags.
func (b *Builder) InlineScripts() template.HTML {
	return b.wrap(b.inline, "<script"+b.nonceAttr()+">", "</script>")
}

// Styles returns queued CSS wrapped in <style> tags.
func (b *Builder) Styles() template.HTML {
	return b.wrap(b.styles, "<style"+b.nonceAttr()+">", "</style>")
}

// JSON returns all JSON-LD blocks wrapped in <script> tags.
func (b *Builder) JSON() template.HTML {
	return b.wrap(b.jsonLD, `<script type="application/ld+json">`, `</script>`)
}

// Head renders the full <head> body in its fixed order: charset and
// viewport, pre-paint scripts, title, metas, links, styles, JSON-LD, then
// ordinary scripts.
func (b *Builder) Head() template.HTML {
	var sb strings.Builder
	sb.WriteString(`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
	sb.WriteString(string(b.InlineScripts()))
	sb.WriteString(string(b.Title()))
	sb.WriteString(string(b.Metas()))
	sb.WriteString(string(b.Links()))
	sb.WriteString(string(b.Styles()))
	sb.WriteString(string(b.JSON()))
	sb.WriteString(string(b.Scripts()))
	return template.HTML(sb.String())
}

func (b *Builder) nonceAttr() string {
	if b.nonce == "" {
		return ""
	}
	return ` nonce="` + template.HTMLEscapeString(b.nonce) + `"`
}

func (b *Builder) wrap(sl []string, open, close string) template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(sl) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, s := range sl {
		sb.WriteString(open)
		sb.WriteString(s)
		sb.WriteString(close)
	}
	return template.HTML(sb.String())
}

// concat joins pre-escaped tags without a separator.
func (b *Builder) concat(sl []string) template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	return template.HTML(strings.Join(sl, ""))
}
