package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/yanizio/sitebuilder/internal/content"
)

// OutlineEntry is one row of the editor's outline panel.
type OutlineEntry struct {
	ID       string         `json:"id"`
	Kind     content.Kind   `json:"kind"`
	Position int            `json:"position"`
	Label    string         `json:"label"`
	Status   content.Status `json:"status"`
}

// Outline lists body sections in the order Render draws them.  Header
// and footer records are left out, as they are in the body.
func Outline(sections []content.Section) []OutlineEntry {
	out := make([]OutlineEntry, 0, len(sections))
	for _, s := range content.SortByPosition(sections) {
		kind := s.Kind()
		if isChrome(kind) {
			continue
		}
		out = append(out, OutlineEntry{
			ID:       s.ID,
			Kind:     kind,
			Position: s.Position,
			Label:    label(kind, s),
			Status:   s.Status,
		})
	}
	return out
}

const maxLabel = 60

// label picks a human name for a block from its payload, falling back to
// the kind.
func label(kind content.Kind, s content.Section) string {
	p, _ := content.Decode(kind, s.Content)
	var l string
	switch v := p.(type) {
	case content.RichText:
		l = firstNonEmpty(v.Title, firstLine(v.Markdown), htmlText(v.HTML))
	case content.Hero:
		l = v.Heading
	case content.Cards:
		l = v.Heading
	case content.Media:
		l = v.Title
		if l == "" && v.Image != nil {
			l = firstNonEmpty(v.Image.Alt, v.Image.Caption)
		}
	case content.Blog:
		l = v.Heading
	case content.Contact:
		l = v.Heading
	case content.SocialLinks:
		l = v.Heading
	}
	l = strings.TrimSpace(strings.TrimLeft(l, "# "))
	if l == "" {
		return kind.String()
	}
	if r := []rune(l); len(r) > maxLabel {
		return string(r[:maxLabel-1]) + "…"
	}
	return l
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return ""
}

// htmlText returns the visible text of an HTML fragment with whitespace
// collapsed.  Script and style bodies are skipped.
func htmlText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	nodes, err := html.ParseFragment(strings.NewReader(s), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return ""
	}
	var b strings.Builder
	for _, n := range nodes {
		collectText(n, &b)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// blockLevel elements separate words; inline ones do not.
var blockLevel = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Section: true, atom.Article: true,
	atom.Td: true, atom.Th: true, atom.Tr: true,
}

func collectText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Template:
			return
		}
		if blockLevel[n.DataAtom] {
			b.WriteByte(' ')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
