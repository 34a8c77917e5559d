package theme

import (
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// parseColor understands "#rgb", "#rrggbb", rgb()/rgba(), hsl()/hsla() and
// the bare space-separated HSL triplet some generators emit.  Alpha is
// ignored.
func parseColor(s string) (colorful.Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return colorful.Color{}, false
	case strings.HasPrefix(s, "#"):
		c, err := colorful.Hex(s)
		return c, err == nil
	case strings.HasPrefix(s, "rgb"):
		n, ok := channels(s, "rgb")
		if !ok {
			return colorful.Color{}, false
		}
		return colorful.Color{R: n[0] / 255, G: n[1] / 255, B: n[2] / 255}.Clamped(), true
	case strings.HasPrefix(s, "hsl"):
		return hsl(strings.TrimPrefix(s, "hsl"))
	default:
		return hsl(s)
	}
}

func hsl(s string) (colorful.Color, bool) {
	n, ok := channels(s, "")
	if !ok {
		return colorful.Color{}, false
	}
	return colorful.Hsl(n[0], clamp01(n[1]/100), clamp01(n[2]/100)), true
}

// channels pulls the first three numbers out of "fn(a b c / d)" or
// "fn(a, b, c)".  Percent signs and the "deg" unit are stripped.
func channels(s, fn string) ([3]float64, bool) {
	var out [3]float64
	s = strings.TrimPrefix(s, fn)
	s = strings.TrimPrefix(s, "a")
	s = strings.Trim(strings.TrimSpace(s), "()")
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '/' || r == '\t'
	})
	if len(fields) < 3 {
		return out, false
	}
	for i := 0; i < 3; i++ {
		f := strings.TrimSuffix(strings.TrimSuffix(fields[i], "%"), "deg")
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return out, false
		}
		out[i] = v
	}
	return out, true
}

func clamp01(v float64) float64 { return clamp(v, 0, 1) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
