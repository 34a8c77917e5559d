package head

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHead_PrePaintScriptPrecedesStyles(t *testing.T) {
	b := New("n0nce")
	b.Style(":root{--x:1}")
	b.InlineScript("window.a=1")
	b.SetTitle("Home & Away")

	out := string(b.Head())
	script := strings.Index(out, `<script nonce="n0nce">window.a=1</script>`)
	style := strings.Index(out, `<style nonce="n0nce">:root{--x:1}</style>`)
	assert.GreaterOrEqual(t, script, 0)
	assert.Greater(t, style, script)
	assert.Contains(t, out, "<title>Home &amp; Away</title>")
}

func TestHead_Dedup(t *testing.T) {
	b := New("")
	b.InlineScript("x()")
	b.InlineScript("x()")
	b.Style("a{}")
	b.Style("a{}")
	b.InlineScript("  ")
	assert.Equal(t, "<script>x()</script>", string(b.InlineScripts()))
	assert.Equal(t, "<style>a{}</style>", string(b.Styles()))
}

func TestHead_HTMLAttrs(t *testing.T) {
	b := New("")
	b.HTMLAttr("lang", "en")
	b.HTMLAttr("data-theme", "dark")
	assert.Equal(t, ` data-theme="dark" lang="en"`, string(b.Attrs()))

	b.HTMLAttr("data-theme", "")
	assert.Equal(t, ` lang="en"`, string(b.Attrs()))
}

func TestHead_EscapesDatabaseMeta(t *testing.T) {
	b := New("")
	b.MetaName("description", `"><script>`)
	b.MetaName("robots", "")
	b.Canonical("https://example.com/?a=1&b=2")
	out := string(b.Metas()) + string(b.Links())
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&amp;b=2")
	assert.NotContains(t, out, "robots")
}
