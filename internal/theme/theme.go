// Package theme turns a stored design-token bundle into the CSS custom
// properties a page needs.
//
// A Theme combines:
//
//   - Colors      – the light palette, always present once resolved.
//   - DarkColors  – an optional authored dark palette.
//   - Typography  – heading and body fonts, type scale, line heights.
//   - Components  – button, card, input, and badge geometry.
//   - Artifacts   – a CSS declaration block and a design-system extension
//     object produced by the generator, plus provenance labels.
//
// Resolve guarantees both palettes exist (synthesizing the dark one when
// needed) and Materialize emits declarations for a site's color mode.
// Neither does I/O, and neither can fail.
package theme

import (
	"strings"
	"time"
)

// Palette is one color scheme.  Values are CSS colors; hex, rgb(), and
// hsl() forms (including the bare "222 47% 11%" triplet) are understood by
// the synthesizer.
type Palette struct {
	Primary         string `json:"primary"         yaml:"primary"`
	Secondary       string `json:"secondary"       yaml:"secondary"`
	Accent          string `json:"accent"          yaml:"accent"`
	Background      string `json:"background"      yaml:"background"`
	Foreground      string `json:"foreground"      yaml:"foreground"`
	Muted           string `json:"muted"           yaml:"muted"`
	MutedForeground string `json:"mutedForeground" yaml:"mutedForeground"`
	Border          string `json:"border"          yaml:"border"`
	Rationale       string `json:"rationale,omitempty" yaml:"rationale,omitempty"`
}

// role pairs a palette slot with its custom-property suffix.
type role struct {
	name string
	get  func(*Palette) *string
}

// roles is the fixed emission order of palette properties.
var roles = []role{
	{"primary", func(p *Palette) *string { return &p.Primary }},
	{"secondary", func(p *Palette) *string { return &p.Secondary }},
	{"accent", func(p *Palette) *string { return &p.Accent }},
	{"background", func(p *Palette) *string { return &p.Background }},
	{"foreground", func(p *Palette) *string { return &p.Foreground }},
	{"muted", func(p *Palette) *string { return &p.Muted }},
	{"muted-foreground", func(p *Palette) *string { return &p.MutedForeground }},
	{"border", func(p *Palette) *string { return &p.Border }},
}

// Complete reports whether every palette role has a value.
func (p Palette) Complete() bool {
	for _, r := range roles {
		if strings.TrimSpace(*r.get(&p)) == "" {
			return false
		}
	}
	return true
}

// FontSpec names a font family and the weights the site loads.
type FontSpec struct {
	Family  string `json:"family"  yaml:"family"`
	Weights []int  `json:"weights" yaml:"weights"`
}

// Typography holds font and rhythm tokens.  Scale and LineHeights map a
// step name ("sm", "base", "xl", ...) to a CSS length or number.
type Typography struct {
	Heading     FontSpec          `json:"heading"     yaml:"heading"`
	Body        FontSpec          `json:"body"        yaml:"body"`
	Scale       map[string]string `json:"scale"       yaml:"scale"`
	LineHeights map[string]string `json:"lineHeights" yaml:"lineHeights"`
}

// Geometry is the token set shared by every component kind.
type Geometry struct {
	Radius      string `json:"radius,omitempty"      yaml:"radius,omitempty"`
	PaddingX    string `json:"paddingX,omitempty"    yaml:"paddingX,omitempty"`
	PaddingY    string `json:"paddingY,omitempty"    yaml:"paddingY,omitempty"`
	BorderWidth string `json:"borderWidth,omitempty" yaml:"borderWidth,omitempty"`
	Shadow      string `json:"shadow,omitempty"      yaml:"shadow,omitempty"`
}

// Components holds per-component geometry.
type Components struct {
	Button Geometry `json:"button" yaml:"button"`
	Card   Geometry `json:"card"   yaml:"card"`
	Input  Geometry `json:"input"  yaml:"input"`
	Badge  Geometry `json:"badge"  yaml:"badge"`
}

// Theme is the persisted design-token bundle.
type Theme struct {
	ID                     string         `json:"id,omitempty"                     yaml:"id,omitempty"`
	Version                int            `json:"version,omitempty"                yaml:"version,omitempty"`
	Colors                 Palette        `json:"colors"                           yaml:"colors"`
	DarkColors             *Palette       `json:"darkColors,omitempty"             yaml:"darkColors,omitempty"`
	Typography             Typography     `json:"typography"                       yaml:"typography"`
	Components             Components     `json:"components"                       yaml:"components"`
	CSSVariables           string         `json:"cssVariables,omitempty"           yaml:"cssVariables,omitempty"`
	DesignSystemExtensions map[string]any `json:"designSystemExtensions,omitempty" yaml:"designSystemExtensions,omitempty"`
	GeneratedAt            time.Time      `json:"generatedAt"                      yaml:"generatedAt"`
	Provider               string         `json:"provider,omitempty"               yaml:"provider,omitempty"`
	Model                  string         `json:"model,omitempty"                  yaml:"model,omitempty"`
}

// ColorMode is the site-level palette policy.
type ColorMode string

const (
	ModeLight      ColorMode = "light"
	ModeDark       ColorMode = "dark"
	ModeSystem     ColorMode = "system"
	ModeUserChoice ColorMode = "user_choice"
)

// ParseColorMode maps a stored setting to a ColorMode.  Anything
// unrecognised (including the empty string) is light.
func ParseColorMode(s string) ColorMode {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeLight, ModeDark, ModeSystem, ModeUserChoice:
		return m
	}
	return ModeLight
}
