package theme

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

func sampleTheme() *Theme {
	return &Theme{
		ID:      "t1",
		Version: 3,
		Colors: Palette{
			Primary:         "#2563eb",
			Secondary:       "hsl(160 84% 39%)",
			Accent:          "rgb(234, 88, 12)",
			Background:      "#fafafa",
			Foreground:      "222 47% 11%",
			Muted:           "#f4f4f5",
			MutedForeground: "#71717a",
			Border:          "#e4e4e7",
		},
		Typography: Typography{
			Heading: FontSpec{Family: "Fraunces, serif", Weights: []int{600, 800}},
			Body:    FontSpec{Family: "Inter, sans-serif", Weights: []int{400}},
			Scale:   map[string]string{"base": "1.0625rem"},
		},
		CSSVariables: ":root { --radius: 0.6rem; --color-primary: red; }\n" +
			"@media (min-width: 40rem) { :root { --gutter: 2rem; } }\n" +
			".dark { --shadow-tint: black; }",
	}
}

func TestParseColorMode(t *testing.T) {
	cases := map[string]ColorMode{
		"light":       ModeLight,
		"DARK":        ModeDark,
		" system ":    ModeSystem,
		"user_choice": ModeUserChoice,
		"":            ModeLight,
		"sepia":       ModeLight,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseColorMode(in), "input %q", in)
	}
}

func TestDefault_IsCompleteAndIsolated(t *testing.T) {
	d := Default()
	require.True(t, d.Colors.Complete())
	require.NotNil(t, d.DarkColors)
	require.True(t, d.DarkColors.Complete())
	assert.NotEmpty(t, d.Typography.Heading.Family)

	d.DarkColors.Primary = "#000000"
	assert.NotEqual(t, "#000000", Default().DarkColors.Primary, "callers must not share the cached default")
}

func TestResolve_NilUsesDefault(t *testing.T) {
	r := Resolve(nil)
	assert.True(t, r.Substituted)
	assert.False(t, r.Synthesized)
	assert.Equal(t, Default().Colors, r.Light)
	assert.Equal(t, *Default().DarkColors, r.Dark)
}

func TestResolve_FillsGaps(t *testing.T) {
	in := &Theme{Colors: Palette{Primary: "#ff0000"}}
	r := Resolve(in)

	assert.False(t, r.Substituted)
	assert.True(t, r.Synthesized)
	assert.True(t, r.Light.Complete())
	assert.True(t, r.Dark.Complete())
	assert.Equal(t, "#ff0000", r.Light.Primary)
	assert.Equal(t, Default().Colors.Border, r.Light.Border)
	assert.Equal(t, Default().Typography.Body.Family, r.Theme.Typography.Body.Family)
	assert.Equal(t, Default().Components.Card.Radius, r.Theme.Components.Card.Radius)
	assert.Nil(t, in.DarkColors, "Resolve must not modify its input")
}

func TestResolve_AuthoredDarkWinsAndGapsAreSynthesized(t *testing.T) {
	th := sampleTheme()
	th.DarkColors = &Palette{Primary: "#abcdef", Background: "#010101"}
	r := Resolve(th)

	assert.Equal(t, "#abcdef", r.Dark.Primary)
	assert.Equal(t, "#010101", r.Dark.Background)
	assert.Equal(t, SynthesizeDark(r.Light).Foreground, r.Dark.Foreground)
	assert.True(t, r.Synthesized)

	th.DarkColors = &Palette{
		Primary: "#1", Secondary: "#2", Accent: "#3", Background: "#4",
		Foreground: "#5", Muted: "#6", MutedForeground: "#7", Border: "#8",
	}
	assert.False(t, Resolve(th).Synthesized)
}

func lightness(t *testing.T, s string) float64 {
	t.Helper()
	c, err := colorful.Hex(s)
	require.NoError(t, err, "synthesized value %q is not hex", s)
	_, _, l := c.Hcl()
	return l
}

func TestSynthesizeDark_RolesAndDeterminism(t *testing.T) {
	light := sampleTheme().Colors
	a := SynthesizeDark(light)
	b := SynthesizeDark(light)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("synthesis is not deterministic:\n%s", diff)
	}

	assert.True(t, a.Complete())
	assert.Equal(t, SynthesizedRationale, a.Rationale)
	assert.Less(t, lightness(t, a.Background), lightness(t, a.Muted))
	assert.Less(t, lightness(t, a.Muted), lightness(t, a.MutedForeground))
	assert.Less(t, lightness(t, a.MutedForeground), lightness(t, a.Foreground))
	assert.Less(t, lightness(t, a.Background), 0.2)
	assert.Greater(t, lightness(t, a.Foreground), 0.85)
	assert.Greater(t, lightness(t, a.Primary), 0.6, "brand colors are lifted for dark surfaces")
}

func TestSynthesizeDark_UnparseableFallsBack(t *testing.T) {
	light := Default().Colors
	light.Accent = "not-a-color"
	light.Border = ""
	got := SynthesizeDark(light)
	def := *Default().DarkColors
	assert.Equal(t, def.Accent, got.Accent)
	assert.Equal(t, def.Border, got.Border)
}

func TestParseColor(t *testing.T) {
	for _, in := range []string{"#fff", "#1e3a8a", "rgb(1 2 3)", "rgba(1, 2, 3, 0.5)", "hsl(222deg 47% 11%)", "hsla(222, 47%, 11%, 1)", "222 47% 11%"} {
		_, ok := parseColor(in)
		assert.True(t, ok, "should parse %q", in)
	}
	for _, in := range []string{"", "blue", "#12", "rgb(1 2)", "hsl(x y z)"} {
		_, ok := parseColor(in)
		assert.False(t, ok, "should reject %q", in)
	}
}

func TestCustomProperties(t *testing.T) {
	got := CustomProperties(sampleTheme().CSSVariables)
	want := []Property{{"--radius", "0.6rem"}, {"--color-primary", "red"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("stylesheet form (-want +got):\n%s", diff)
	}

	got = CustomProperties("--a: 1px; color: red; --b: x y; --a: 2px")
	want = []Property{{"--a", "2px"}, {"--b", "x y"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("inline form (-want +got):\n%s", diff)
	}

	assert.Empty(t, CustomProperties("   "))
}

// sheet is a parsed style sheet keyed by "media|selector".
type sheet map[string]map[string]string

func parseSheet(t *testing.T, src string) sheet {
	t.Helper()
	out := sheet{}
	p := css.NewParser(parse.NewInputString(src), false)
	var media, sel string
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			return out
		case css.BeginAtRuleGrammar:
			media = strings.TrimSpace(tokens(nil, p.Values()))
		case css.EndAtRuleGrammar:
			media = ""
		case css.BeginRulesetGrammar:
			sel = strings.Trim(tokens(data, p.Values()), "{ \n")
			if out[media+"|"+sel] == nil {
				out[media+"|"+sel] = map[string]string{}
			}
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			out[media+"|"+sel][string(data)] = strings.TrimSpace(tokens(nil, p.Values()))
		}
	}
}

func tokens(data []byte, vals []css.Token) string {
	b := strings.Builder{}
	b.Write(data)
	for _, v := range vals {
		b.Write(v.Data)
	}
	return b.String()
}

func TestMaterialize_UserChoice(t *testing.T) {
	th := sampleTheme()
	d := Materialize(th, ModeUserChoice)
	r := Resolve(th)
	s := parseSheet(t, d.CSS())

	root := s["|:root"]
	require.NotNil(t, root)
	assert.Equal(t, r.Light.Primary, root["--color-primary"])
	assert.Equal(t, "light", root["color-scheme"])
	assert.Equal(t, "Fraunces, serif", root["--font-heading"])
	assert.Equal(t, "0.6rem", root["--radius"])
	assert.NotContains(t, root, "--gutter")

	dark := s[`|:root[data-theme="dark"]`]
	require.NotNil(t, dark)
	assert.Equal(t, r.Dark.Primary, dark["--color-primary"])
	assert.Equal(t, r.Dark.Background, dark["--color-background"])
	assert.Equal(t, "dark", dark["color-scheme"])
	assert.NotContains(t, dark, "--font-heading")

	require.NotEmpty(t, d.InitScript)
	for _, want := range []string{`localStorage`, `"color-mode"`, `"data-theme"`, `toggleColorMode`, `"DOMContentLoaded"`, `"[` + ToggleAttr + `]"`} {
		assert.Contains(t, d.InitScript, want)
	}
}

func TestMaterialize_Modes(t *testing.T) {
	th := sampleTheme()
	r := Resolve(th)

	light := parseSheet(t, Materialize(th, ModeLight).CSS())
	assert.Equal(t, r.Light.Background, light["|:root"]["--color-background"])

	dark := parseSheet(t, Materialize(th, ModeDark).CSS())
	assert.Equal(t, r.Dark.Background, dark["|:root"]["--color-background"])
	assert.Equal(t, "dark", dark["|:root"]["color-scheme"])

	sys := parseSheet(t, Materialize(th, ModeSystem).CSS())
	assert.Equal(t, r.Light.Background, sys["|:root"]["--color-background"])
	var media map[string]string
	for k, v := range sys {
		if strings.Contains(k, "prefers-color-scheme") && strings.HasSuffix(k, "|:root") {
			media = v
		}
	}
	require.NotNil(t, media, "system mode needs a prefers-color-scheme block")
	assert.Equal(t, r.Dark.Background, media["--color-background"])

	assert.Empty(t, Materialize(th, ModeSystem).InitScript)
	assert.Empty(t, Materialize(th, ModeLight).InitScript)
}

func TestMaterialize_EveryModeCarriesBothPalettesAndTokensOnce(t *testing.T) {
	for _, mode := range []ColorMode{ModeLight, ModeDark, ModeSystem, ModeUserChoice, "bogus"} {
		d := Materialize(sampleTheme(), mode)
		require.Len(t, d.Light, len(roles), "mode %s", mode)
		require.Len(t, d.Dark, len(roles), "mode %s", mode)
		for i := range d.Light {
			assert.NotEmpty(t, d.Light[i].Value)
			assert.NotEmpty(t, d.Dark[i].Value)
		}

		out := d.CSS()
		assert.Equal(t, 1, strings.Count(out, "--font-heading:"), "mode %s", mode)
		assert.Equal(t, 1, strings.Count(out, "--text-base:"), "mode %s", mode)
		assert.Equal(t, 1, strings.Count(out, "--button-radius:"), "mode %s", mode)

		s := parseSheet(t, out)
		assert.Equal(t, d.Light[0].Value, s[`|[data-color-mode="light"]`]["--color-primary"])
		assert.Equal(t, d.Dark[0].Value, s[`|[data-color-mode="dark"]`]["--color-primary"])
	}
	assert.Equal(t, ModeLight, Materialize(nil, "bogus").Mode)
}

func TestMaterialize_StripsInjection(t *testing.T) {
	th := sampleTheme()
	th.Typography.Heading.Family = "x;}</style><script>alert(1)</script>"
	out := Materialize(th, ModeLight).CSS()
	assert.NotContains(t, out, "</style>")
	assert.NotContains(t, out, "<script>")
}

func TestEngine_CachesPerMode(t *testing.T) {
	e := NewEngine(8, nil)
	th := sampleTheme()

	a := e.Declarations(th, ModeDark)
	b := e.Declarations(th, ModeLight)
	assert.Equal(t, ModeDark, a.Mode)
	assert.Equal(t, ModeLight, b.Mode)
	assert.NotEqual(t, a.CSS(), b.CSS())
	assert.Equal(t, 2, e.lru.Len())

	again := e.Declarations(th, ModeDark)
	assert.Equal(t, a.CSS(), again.CSS())
	assert.Equal(t, 2, e.lru.Len())

	anon := *th
	anon.ID = ""
	e.Declarations(&anon, ModeDark)
	assert.Equal(t, 2, e.lru.Len(), "themes without identity are not cached")

	assert.True(t, e.Declarations(nil, ModeLight).Substituted)
}
