package theme

import "strings"

// Resolved is a theme with both palettes guaranteed complete.
type Resolved struct {
	Theme *Theme
	Light Palette
	Dark  Palette

	// Substituted is true when the built-in default stood in for a
	// missing theme.
	Substituted bool
	// Synthesized is true when any dark role was derived from Light.
	Synthesized bool
}

// Resolve fills every gap in t.  A nil theme becomes the built-in default.
// Missing light roles, fonts, scale steps, and component tokens come from
// the default.  The dark palette is the authored one when present, with any
// missing role synthesized; otherwise it is synthesized whole.
func Resolve(t *Theme) Resolved {
	def := Default()
	if t == nil {
		return Resolved{Theme: def, Light: def.Colors, Dark: *def.DarkColors, Substituted: true}
	}

	out := *t
	out.Colors = fillPalette(t.Colors, def.Colors)
	out.Typography = fillTypography(t.Typography, def.Typography)
	out.Components = Components{
		Button: fillGeometry(t.Components.Button, def.Components.Button),
		Card:   fillGeometry(t.Components.Card, def.Components.Card),
		Input:  fillGeometry(t.Components.Input, def.Components.Input),
		Badge:  fillGeometry(t.Components.Badge, def.Components.Badge),
	}

	synth := SynthesizeDark(out.Colors)
	dark, synthesized := synth, true
	if t.DarkColors != nil {
		dark = fillPalette(*t.DarkColors, synth)
		synthesized = !t.DarkColors.Complete()
	}
	out.DarkColors = &dark

	return Resolved{Theme: &out, Light: out.Colors, Dark: dark, Synthesized: synthesized}
}

func fillPalette(p, from Palette) Palette {
	for _, r := range roles {
		if v := r.get(&p); strings.TrimSpace(*v) == "" {
			*v = *r.get(&from)
		}
	}
	if p.Rationale == "" {
		p.Rationale = from.Rationale
	}
	return p
}

func fillTypography(t, from Typography) Typography {
	t.Heading = fillFont(t.Heading, from.Heading)
	t.Body = fillFont(t.Body, from.Body)
	t.Scale = fillMap(t.Scale, from.Scale)
	t.LineHeights = fillMap(t.LineHeights, from.LineHeights)
	return t
}

func fillFont(f, from FontSpec) FontSpec {
	if strings.TrimSpace(f.Family) == "" {
		f.Family = from.Family
	}
	if len(f.Weights) == 0 {
		f.Weights = from.Weights
	}
	return f
}

// fillMap copies from into a fresh map and lays m over it.
func fillMap(m, from map[string]string) map[string]string {
	out := make(map[string]string, len(from)+len(m))
	for k, v := range from {
		out[k] = v
	}
	for k, v := range m {
		if strings.TrimSpace(v) != "" {
			out[k] = v
		}
	}
	return out
}

func fillGeometry(g, from Geometry) Geometry {
	if g.Radius == "" {
		g.Radius = from.Radius
	}
	if g.PaddingX == "" {
		g.PaddingX = from.PaddingX
	}
	if g.PaddingY == "" {
		g.PaddingY = from.PaddingY
	}
	if g.BorderWidth == "" {
		g.BorderWidth = from.BorderWidth
	}
	if g.Shadow == "" {
		g.Shadow = from.Shadow
	}
	return g
}
