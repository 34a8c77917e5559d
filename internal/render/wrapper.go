package render

import (
	"html/template"
	"strings"

	"github.com/yanizio/sitebuilder/internal/content"
	"github.com/yanizio/sitebuilder/internal/theme"
)

// Attr is one HTML attribute on a block wrapper.
type Attr struct {
	Name  string
	Value string
}

// Wrapper is the element around a rendered block.  Decorators add
// attributes and classes; they never see or change the block's markup.
type Wrapper struct {
	ID      string
	Kind    content.Kind
	Status  Status
	Tag     string
	Classes []string
	Attrs   []Attr
}

// Set adds or replaces an attribute.
func (w *Wrapper) Set(name, value string) {
	for i := range w.Attrs {
		if w.Attrs[i].Name == name {
			w.Attrs[i].Value = value
			return
		}
	}
	w.Attrs = append(w.Attrs, Attr{Name: name, Value: value})
}

// Get returns an attribute value.
func (w *Wrapper) Get(name string) (string, bool) {
	for _, a := range w.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AddClass appends a class name.
func (w *Wrapper) AddClass(c string) { w.Classes = append(w.Classes, c) }

// Decorator adjusts block wrappers.  Implementations must be safe for
// concurrent use or used by one render at a time.
type Decorator interface {
	Decorate(w *Wrapper)
}

// DecoratorFunc adapts a function to Decorator.
type DecoratorFunc func(w *Wrapper)

func (f DecoratorFunc) Decorate(w *Wrapper) { f(w) }

// Public leaves wrappers untouched.  It is what visitors get.
var Public Decorator = DecoratorFunc(func(*Wrapper) {})

func newWrapper(id string, kind content.Kind, status Status, ov *content.Overrides) *Wrapper {
	w := &Wrapper{ID: id, Kind: kind, Status: status, Tag: "section"}
	switch kind.Primitive {
	case content.PrimitiveHeader:
		w.Tag = "header"
	case content.PrimitiveFooter:
		w.Tag = "footer"
	}
	w.Classes = []string{"blk", "blk-" + token(kind.Primitive)}
	if kind.Preset != "" {
		w.Classes = append(w.Classes, "blk-"+token(kind.Primitive)+"--"+token(kind.Preset))
	}
	w.Set("id", "blk-"+id)
	w.Set("data-kind", kind.String())
	if status != StatusOK {
		w.Set("data-status", status.String())
	}
	if ov == nil {
		return w
	}
	if v := token(ov.Spacing); v != "" {
		w.Set("data-spacing", v)
	}
	switch theme.ColorMode(ov.ColorMode) {
	case theme.ModeLight, theme.ModeDark:
		w.Set(theme.SectionModeAttr, ov.ColorMode)
	}
	if v := token(ov.Border); v != "" {
		w.Set("data-border", v)
	}
	if v := token(ov.ContentWidth); v != "" {
		w.Set("data-width", v)
	}
	return w
}

// token keeps [a-z0-9_-] so stored values are safe in class names and
// attribute selectors.
func token(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return -1
	}, s)
}

func (w *Wrapper) html(inner template.HTML) template.HTML {
	var b strings.Builder
	b.WriteString("<" + w.Tag)
	if len(w.Classes) > 0 {
		b.WriteString(` class="` + template.HTMLEscapeString(strings.Join(w.Classes, " ")) + `"`)
	}
	for _, a := range w.Attrs {
		b.WriteString(" " + token(a.Name) + `="` + template.HTMLEscapeString(a.Value) + `"`)
	}
	b.WriteString(">")
	b.WriteString(string(inner))
	b.WriteString("</" + w.Tag + ">")
	return template.HTML(b.String())
}
