// internal/block/registry.go
//
// Renderer registry keyed by (primitive, preset).
//
// Context
// -------
// Every section resolves to a content.Kind.  The registry maps that kind to
// the code that draws it.  It is filled once in New and never changes
// afterwards, so lookups need no locking and renderers can be shared by
// every request.
//
// Workflow
// --------
//   - Lookup(kind)
//     1. exact (primitive, preset) hit.
//     2. (primitive, ""): the primitive's default renderer.
//     3. placeholder, reported with ok == false so callers can count it.
//
// Notes
// -----
//   - Renderers never learn whether they are running inside the editor.
//     Editing affordances are added by the render pipeline's Decorator.
package block

import (
	"fmt"
	"io"
	"sort"

	"go.uber.org/zap"

	"github.com/yanizio/sitebuilder/internal/content"
)

// Key identifies a renderer.  An empty Preset is the primitive's default.
type Key struct {
	Primitive string
	Preset    string
}

func (k Key) String() string { return content.Kind(k).String() }

// Block is what a renderer receives.
type Block struct {
	ID      string
	Kind    content.Kind
	Payload content.Payload
	// ColorToggle asks the header for a light/dark switch.
	ColorToggle bool
}

// Renderer draws one block.  Implementations must be safe for concurrent
// use.
type Renderer interface {
	Render(w io.Writer, b Block) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(w io.Writer, b Block) error

func (f RendererFunc) Render(w io.Writer, b Block) error { return f(w, b) }

// Registry is read-only after New returns.
type Registry struct {
	renderers   map[Key]Renderer
	placeholder Renderer
	degraded    Renderer
	log         *zap.Logger
}

type options struct {
	templateDir string
	log         *zap.Logger
	extra       map[Key]Renderer
}

// Option configures New.
type Option func(*options)

// WithTemplateDir replaces built-in templates by name with the *.html
// files found under dir.
func WithTemplateDir(dir string) Option { return func(o *options) { o.templateDir = dir } }

// WithLogger sets the registry logger.
func WithLogger(l *zap.Logger) Option { return func(o *options) { o.log = l } }

// WithRenderer registers r under k, replacing any built-in.
func WithRenderer(k Key, r Renderer) Option {
	return func(o *options) {
		if o.extra == nil {
			o.extra = make(map[Key]Renderer)
		}
		o.extra[k] = r
	}
}

// New builds the registry with a renderer for every known kind.
func New(opts ...Option) (*Registry, error) {
	o := options{log: zap.NewNop()}
	for _, fn := range opts {
		fn(&o)
	}

	set, err := loadTemplates(o.templateDir)
	if err != nil {
		return nil, err
	}
	md := newMarkdown()

	r := &Registry{
		renderers:   make(map[Key]Renderer),
		placeholder: &tmplRenderer{set: set, name: "placeholder"},
		degraded:    &tmplRenderer{set: set, name: "degraded"},
		log:         o.log,
	}

	for _, prim := range builtinPrimitives {
		presets := content.Presets(prim)
		if len(presets) == 0 {
			if err := r.bindTemplate(set, md, Key{prim, ""}, prim); err != nil {
				return nil, err
			}
			continue
		}
		for _, p := range presets {
			if err := r.bindTemplate(set, md, Key{prim, p}, prim+"/"+p); err != nil {
				return nil, err
			}
		}
		// Default preset doubles as the primitive-level fallback.
		r.renderers[Key{prim, ""}] = r.renderers[Key{prim, presets[0]}]
	}

	for k, v := range o.extra {
		r.renderers[k] = v
	}
	o.log.Debug("block registry ready", zap.Int("renderers", len(r.renderers)))
	return r, nil
}

var builtinPrimitives = []string{
	content.PrimitiveRichText,
	content.PrimitiveHero,
	content.PrimitiveCards,
	content.PrimitiveMedia,
	content.PrimitiveBlog,
	content.PrimitiveHeader,
	content.PrimitiveFooter,
	content.PrimitiveContact,
	content.PrimitiveSocialLinks,
}

func (r *Registry) bindTemplate(set *templateSet, md *markdown, k Key, name string) error {
	if set.Lookup(name) == nil {
		return fmt.Errorf("block: template %q missing for %s", name, k)
	}
	tr := &tmplRenderer{set: set, name: name}
	if k.Primitive == content.PrimitiveRichText {
		tr.body = md.body
	}
	r.renderers[k] = tr
	return nil
}

// Lookup returns the renderer for kind.  When nothing matches it returns
// the placeholder renderer and ok == false.
func (r *Registry) Lookup(kind content.Kind) (rend Renderer, ok bool) {
	if rend, ok = r.renderers[Key(kind)]; ok {
		return rend, true
	}
	if kind.Preset != "" {
		if rend, ok = r.renderers[Key{kind.Primitive, ""}]; ok {
			return rend, true
		}
	}
	return r.placeholder, false
}

// Placeholder draws a block whose kind has no renderer.
func (r *Registry) Placeholder() Renderer { return r.placeholder }

// Degraded draws a block whose renderer failed.
func (r *Registry) Degraded() Renderer { return r.degraded }

// Keys lists registered keys in a stable order.
func (r *Registry) Keys() []Key {
	keys := make([]Key, 0, len(r.renderers))
	for k := range r.renderers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Primitive != keys[j].Primitive {
			return keys[i].Primitive < keys[j].Primitive
		}
		return keys[i].Preset < keys[j].Preset
	})
	return keys
}
