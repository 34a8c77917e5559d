package theme

import (
	"sort"
	"strconv"
	"strings"
)

// Attribute and storage names shared with the pre-paint script, the
// document writer, and the public handler.
const (
	// ThemeAttr on <html> switches a user_choice page to dark.
	ThemeAttr = "data-theme"
	// SectionModeAttr on a block wrapper forces one palette for that block.
	SectionModeAttr = "data-color-mode"
	// StorageKey is the localStorage key and cookie name holding the
	// visitor's choice.
	StorageKey = "color-mode"
	// ToggleAttr marks the header button that flips the mode.
	ToggleAttr = "data-color-mode-toggle"
)

// Property is one CSS declaration.
type Property struct {
	Name  string
	Value string
}

// Rule is a selector with its declarations, optionally wrapped in a media
// query.
type Rule struct {
	Media    string
	Selector string
	Props    []Property
}

// Declarations is everything a page needs to style itself for one color
// mode.  Light and Dark always hold full palettes.  Values returned by the
// Engine are shared; treat them as read-only.
type Declarations struct {
	Mode        ColorMode
	Light       []Property
	Dark        []Property
	Rules       []Rule
	InitScript  string
	Substituted bool
	Synthesized bool
}

// initScript runs before first paint.  It restores the stored choice,
// mirrors it into a cookie so the server can set the attribute next time,
// and exposes window.setColorMode / window.toggleColorMode.  Toggle
// buttons are bound once the document has loaded.
const initScript = `(function(){var k="color-mode",a="data-theme",d=document.documentElement;` +
	`function set(m){if(m==="dark"){d.setAttribute(a,"dark")}else{d.removeAttribute(a)}}` +
	`try{var p=localStorage.getItem(k);if(p==="dark"||p==="light"){set(p)}}catch(e){}` +
	`window.setColorMode=function(m){m=m==="dark"?"dark":"light";set(m);` +
	`try{localStorage.setItem(k,m)}catch(e){}` +
	`document.cookie=k+"="+m+";path=/;max-age=31536000;samesite=lax"};` +
	`window.toggleColorMode=function(){window.setColorMode(d.getAttribute(a)==="dark"?"light":"dark");sync()};` +
	`function sync(){var on=d.getAttribute(a)==="dark",b=document.querySelectorAll("[data-color-mode-toggle]");` +
	`for(var i=0;i<b.length;i++){b[i].setAttribute("aria-pressed",on?"true":"false")}}` +
	`document.addEventListener("DOMContentLoaded",function(){var b=document.querySelectorAll("[data-color-mode-toggle]");` +
	`for(var i=0;i<b.length;i++){b[i].addEventListener("click",window.toggleColorMode)}sync()})})();`

// InitScript returns the pre-paint script used by user_choice sites.
func InitScript() string { return initScript }

// Materialize resolves t and emits declarations for mode.  Tokens that do
// not depend on the palette (fonts, type scale, line heights, component
// geometry, artifact extras) appear once at :root.  Palettes are placed
// according to mode, and both are always emitted under the per-block
// [data-color-mode] selectors.
func Materialize(t *Theme, mode ColorMode) Declarations {
	mode = ParseColorMode(string(mode))
	r := Resolve(t)

	light := paletteProps(r.Light)
	dark := paletteProps(r.Dark)
	tokens := tokenProps(r.Theme)

	taken := make(map[string]bool, len(light)+len(tokens))
	for _, p := range light {
		taken[p.Name] = true
	}
	for _, p := range tokens {
		taken[p.Name] = true
	}
	for _, p := range CustomProperties(r.Theme.CSSVariables) {
		if !taken[p.Name] {
			tokens = append(tokens, p)
		}
	}

	d := Declarations{
		Mode:        mode,
		Light:       light,
		Dark:        dark,
		Substituted: r.Substituted,
		Synthesized: r.Synthesized,
	}
	d.Rules = append(d.Rules, Rule{Selector: ":root", Props: tokens})

	switch mode {
	case ModeDark:
		d.Rules = append(d.Rules, Rule{Selector: ":root", Props: scheme(dark, "dark")})
	case ModeSystem:
		d.Rules = append(d.Rules,
			Rule{Selector: ":root", Props: scheme(light, "light dark")},
			Rule{Media: "(prefers-color-scheme: dark)", Selector: ":root", Props: scheme(dark, "dark")},
		)
	case ModeUserChoice:
		d.Rules = append(d.Rules,
			Rule{Selector: ":root", Props: scheme(light, "light")},
			Rule{Selector: `:root[` + ThemeAttr + `="dark"]`, Props: scheme(dark, "dark")},
		)
		d.InitScript = initScript
	default:
		d.Rules = append(d.Rules, Rule{Selector: ":root", Props: scheme(light, "light")})
	}

	d.Rules = append(d.Rules,
		Rule{Selector: `[` + SectionModeAttr + `="light"]`, Props: scheme(light, "light")},
		Rule{Selector: `[` + SectionModeAttr + `="dark"]`, Props: scheme(dark, "dark")},
	)
	return d
}

// CSS renders the rules as a style sheet body.
func (d Declarations) CSS() string {
	var b strings.Builder
	for _, r := range d.Rules {
		if len(r.Props) == 0 {
			continue
		}
		indent := "  "
		if r.Media != "" {
			b.WriteString("@media " + r.Media + " {\n  ")
			indent = "    "
		}
		b.WriteString(r.Selector + " {\n")
		for _, p := range r.Props {
			b.WriteString(indent + p.Name + ": " + p.Value + ";\n")
		}
		if r.Media != "" {
			b.WriteString("  }\n")
		}
		b.WriteString("}\n")
	}
	return b.String()
}

func paletteProps(p Palette) []Property {
	out := make([]Property, 0, len(roles))
	for _, r := range roles {
		out = append(out, Property{Name: "--color-" + r.name, Value: cleanValue(*r.get(&p))})
	}
	return out
}

func scheme(palette []Property, cs string) []Property {
	out := make([]Property, 0, len(palette)+1)
	out = append(out, palette...)
	return append(out, Property{Name: "color-scheme", Value: cs})
}

func tokenProps(t *Theme) []Property {
	var out []Property
	add := func(name, val string) {
		if v := cleanValue(val); v != "" {
			out = append(out, Property{Name: name, Value: v})
		}
	}

	ty := t.Typography
	add("--font-heading", ty.Heading.Family)
	add("--font-body", ty.Body.Family)
	if len(ty.Heading.Weights) > 0 {
		add("--font-heading-weight", strconv.Itoa(ty.Heading.Weights[len(ty.Heading.Weights)-1]))
	}
	if len(ty.Body.Weights) > 0 {
		add("--font-body-weight", strconv.Itoa(ty.Body.Weights[0]))
	}
	for _, k := range sortedKeys(ty.Scale) {
		add("--text-"+k, ty.Scale[k])
	}
	for _, k := range sortedKeys(ty.LineHeights) {
		add("--leading-"+k, ty.LineHeights[k])
	}

	for _, c := range []struct {
		name string
		g    Geometry
	}{
		{"button", t.Components.Button},
		{"card", t.Components.Card},
		{"input", t.Components.Input},
		{"badge", t.Components.Badge},
	} {
		add("--"+c.name+"-radius", c.g.Radius)
		add("--"+c.name+"-padding-x", c.g.PaddingX)
		add("--"+c.name+"-padding-y", c.g.PaddingY)
		add("--"+c.name+"-border-width", c.g.BorderWidth)
		add("--"+c.name+"-shadow", c.g.Shadow)
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// cleanValue keeps stored values from escaping their declaration or the
// surrounding <style> element.
func cleanValue(v string) string {
	v = strings.Map(func(r rune) rune {
		switch r {
		case '{', '}', ';', '<', '>', '\n', '\r':
			return -1
		}
		return r
	}, v)
	return strings.TrimSpace(v)
}
