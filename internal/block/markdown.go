package block

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/yanizio/sitebuilder/internal/content"
)

// markdown renders rich-text bodies.  Raw HTML inside Markdown is dropped
// (goldmark's default without html.WithUnsafe); visual HTML goes through
// bluemonday's UGC policy.
type markdown struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func newMarkdown() *markdown {
	return &markdown{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// body picks the rich-text body for the block's preset.  Visual content
// is editor HTML and is sanitized before it reaches the page; markdown
// and article convert Markdown.  Either falls back to the other field when
// its own is empty.
func (m *markdown) body(b Block) (template.HTML, error) {
	rt, ok := b.Payload.(content.RichText)
	if !ok {
		return "", fmt.Errorf("block: richtext renderer got %T", b.Payload)
	}
	useMarkdown := b.Kind.Preset == "markdown" || b.Kind.Preset == "article"
	if useMarkdown && rt.Markdown == "" || !useMarkdown && rt.HTML != "" {
		return template.HTML(m.policy.Sanitize(rt.HTML)), nil
	}
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(rt.Markdown), &buf); err != nil {
		return "", fmt.Errorf("block: markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}
