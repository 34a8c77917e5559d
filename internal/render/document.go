package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/yanizio/sitebuilder/internal/block"
	"github.com/yanizio/sitebuilder/internal/content"
	"github.com/yanizio/sitebuilder/internal/head"
)

// Document writes a complete HTML document for t.  The pre-paint script
// (user_choice sites) is queued ahead of every style so the stored color
// preference applies before first paint.  h may already carry caller
// additions such as <html> attributes; it is consumed by this call.
func (p *Pipeline) Document(w io.Writer, t *Tree, h *head.Builder, page content.Page) error {
	if h == nil {
		h = head.New("")
	}

	h.InlineScript(t.Style.InitScript)
	h.Style(block.BaseCSS())
	h.Style(t.Style.CSS())

	title := page.SEO.Title
	if title == "" {
		title = page.Title
	}
	h.SetTitle(title)
	h.MetaName("description", page.SEO.Description)
	h.MetaProperty("og:title", title)
	h.MetaProperty("og:description", page.SEO.Description)
	h.MetaProperty("og:image", page.SEO.OGImage)
	h.Canonical(page.SEO.CanonicalURL)
	if page.SEO.NoIndex {
		h.MetaName("robots", "noindex")
	}

	var b strings.Builder
	b.WriteString("<!doctype html>\n<html")
	b.WriteString(string(h.Attrs()))
	b.WriteString(">\n<head>")
	b.WriteString(string(h.Head()))
	b.WriteString("</head>\n<body>\n")
	if t.Header != nil {
		b.WriteString(string(t.Header.HTML))
		b.WriteString("\n")
	}
	b.WriteString("<main>\n")
	for _, n := range t.Body {
		b.WriteString(string(n.HTML))
		b.WriteString("\n")
	}
	b.WriteString("</main>\n")
	if t.Footer != nil {
		b.WriteString(string(t.Footer.HTML))
		b.WriteString("\n")
	}
	b.WriteString("</body>\n</html>\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("render: write document: %w", err)
	}
	return nil
}
