package theme

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// CustomProperties extracts "--name: value" pairs from a generator's CSS
// artifact.  Two shapes are accepted: a bare declaration list, or a style
// sheet in which only top-level ":root" rules count.  Declarations inside
// at-rules and other selectors are skipped, as is anything that is not a
// custom property.  Later duplicates win but keep their first position.
// Parsing stops quietly at the first syntax error.
func CustomProperties(src string) []Property {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil
	}
	inline := !strings.Contains(src, "{")
	p := css.NewParser(parse.NewInputString(src), inline)

	var (
		out    []Property
		index  = map[string]int{}
		depth  int
		inRoot = inline
	)
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			// io.EOF or a syntax error; either way we are done.
			return out
		case css.BeginAtRuleGrammar:
			depth++
		case css.EndAtRuleGrammar:
			depth--
		case css.BeginRulesetGrammar:
			inRoot = depth == 0 && selector(data, p.Values()) == ":root"
		case css.EndRulesetGrammar:
			inRoot = inline
		case css.CustomPropertyGrammar, css.DeclarationGrammar:
			name := strings.TrimSpace(string(data))
			if !inRoot || !strings.HasPrefix(name, "--") {
				continue
			}
			var b strings.Builder
			for _, v := range p.Values() {
				b.Write(v.Data)
			}
			val := cleanValue(b.String())
			if val == "" {
				continue
			}
			if i, ok := index[name]; ok {
				out[i].Value = val
				continue
			}
			index[name] = len(out)
			out = append(out, Property{Name: name, Value: val})
		}
	}
}

func selector(data []byte, vals []css.Token) string {
	var b strings.Builder
	b.Write(data)
	for _, v := range vals {
		b.Write(v.Data)
	}
	return strings.Trim(strings.Join(strings.Fields(b.String()), ""), "{")
}
