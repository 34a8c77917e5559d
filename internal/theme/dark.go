package theme

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// SynthesizedRationale marks a dark palette that was derived rather than
// authored.
const SynthesizedRationale = "synthesized"

// shift describes how one palette role moves from light to dark in CIE
// LCh.  Lightness is inverted then clamped into [minL, maxL]; brand roles
// keep their lightness and only get clamped.  Chroma is scaled.
type shift struct {
	invert     bool
	minL, maxL float64
	chroma     float64
}

var darkShift = map[string]shift{
	"primary":          {minL: 0.62, maxL: 0.82, chroma: 0.9},
	"secondary":        {minL: 0.62, maxL: 0.82, chroma: 0.9},
	"accent":           {minL: 0.66, maxL: 0.85, chroma: 0.9},
	"background":       {invert: true, minL: 0.06, maxL: 0.14, chroma: 0.4},
	"foreground":       {invert: true, minL: 0.90, maxL: 0.97, chroma: 0.4},
	"muted":            {invert: true, minL: 0.16, maxL: 0.24, chroma: 0.5},
	"muted-foreground": {invert: true, minL: 0.62, maxL: 0.74, chroma: 0.7},
	"border":           {invert: true, minL: 0.22, maxL: 0.32, chroma: 0.5},
}

// SynthesizeDark derives a dark palette from a light one.  Each role is
// transformed on its own, so backgrounds stay darkest and foregrounds stay
// lightest.  A role whose value cannot be parsed takes the built-in dark
// value for that role.  The function is pure: equal input, equal output.
func SynthesizeDark(light Palette) Palette {
	fallback := *Default().DarkColors
	var dark Palette
	for _, r := range roles {
		src := *r.get(&light)
		c, ok := parseColor(src)
		if !ok {
			*r.get(&dark) = *r.get(&fallback)
			continue
		}
		*r.get(&dark) = darken(c, darkShift[r.name])
	}
	dark.Rationale = SynthesizedRationale
	return dark
}

func darken(c colorful.Color, s shift) string {
	h, chroma, l := c.Hcl()
	if s.invert {
		l = 1 - l
	}
	l = clamp(l, s.minL, s.maxL)
	chroma *= s.chroma
	out := colorful.Hcl(h, chroma, l)
	// Pull chroma in until the color fits sRGB so lightness survives.
	for !out.IsValid() && chroma > 0 {
		chroma -= 0.005
		out = colorful.Hcl(h, chroma, l)
	}
	return out.Clamped().Hex()
}
