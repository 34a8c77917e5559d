// internal/block/templates.go
//
// Template loading for the built-in renderers.
//
// Precedence (high → low):
//  1. <template_dir>/**/*.html      (operator overrides, by define name)
//  2. embedded templates/*.html     (built-ins)
//
// Both layers are parsed into one html/template set, so an override file
// only needs to {{ define }} the names it replaces and can still call the
// built-in partials.
package block

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	sprig "github.com/go-task/slim-sprig/v3"

	"github.com/yanizio/sitebuilder/internal/content"
)

//go:embed templates/*.html templates/*.css
var builtin embed.FS

// BaseCSS returns the structural style sheet shared by all blocks.  It
// only references theme custom properties.
func BaseCSS() string {
	b, err := builtin.ReadFile("templates/base.css")
	if err != nil {
		return ""
	}
	return string(b)
}

type templateSet = template.Template

func loadTemplates(overrideDir string) (*templateSet, error) {
	set := template.New("blocks").Funcs(funcMap())
	set, err := set.ParseFS(builtin, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("block: parse built-in templates: %w", err)
	}
	if overrideDir == "" {
		return set, nil
	}
	files, err := CollectHTML(overrideDir)
	if err != nil {
		return nil, fmt.Errorf("block: scan %s: %w", overrideDir, err)
	}
	if len(files) > 0 {
		if _, err := set.ParseFiles(files...); err != nil {
			return nil, fmt.Errorf("block: parse overrides: %w", err)
		}
	}
	return set, nil
}

// CollectHTML walks rootDir recursively and returns every *.html path in
// slash form, ready for template.ParseFiles.
func CollectHTML(rootDir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			files = append(files, filepath.ToSlash(path))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// funcMap is slim-sprig plus a few helpers for the content structs.
func funcMap() template.FuncMap {
	fm := template.FuncMap(sprig.FuncMap())
	fm["deref"] = func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	fm["derefBool"] = func(b *bool) bool { return b != nil && *b }
	fm["derefBoolDefault"] = func(def bool, b *bool) bool {
		if b == nil {
			return def
		}
		return *b
	}
	fm["columns"] = func(n int) int {
		if n < 1 || n > 4 {
			return 3
		}
		return n
	}
	fm["aspect"] = func(s string) template.CSS {
		switch s {
		case "4/3", "1/1", "21/9", "3/4", "9/16":
			return template.CSS(s)
		}
		return "16/9"
	}
	fm["leadPost"] = func(ps []content.Post) *content.Post {
		if len(ps) == 0 {
			return nil
		}
		return &ps[0]
	}
	fm["otherPosts"] = func(ps []content.Post) []content.Post {
		if len(ps) < 2 {
			return nil
		}
		return ps[1:]
	}
	return fm
}

// view is the data every block template receives.
type view struct {
	ID          string
	Kind        content.Kind
	P           content.Payload
	Body        template.HTML
	ColorToggle bool
}

// tmplRenderer executes one named template from the shared set.
type tmplRenderer struct {
	set  *templateSet
	name string
	body func(Block) (template.HTML, error)
}

func (t *tmplRenderer) Render(w io.Writer, b Block) error {
	v := view{ID: b.ID, Kind: b.Kind, P: b.Payload, ColorToggle: b.ColorToggle}
	if t.body != nil {
		body, err := t.body(b)
		if err != nil {
			return err
		}
		v.Body = body
	}
	return t.set.ExecuteTemplate(w, t.name, v)
}
