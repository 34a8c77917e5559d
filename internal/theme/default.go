package theme

import (
	_ "embed"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

var (
	defaultOnce  sync.Once
	defaultTheme Theme
)

// Default returns a copy of the built-in theme.  The embedded file is
// part of the binary, so a decode failure is a build defect and panics.
func Default() *Theme {
	defaultOnce.Do(func() {
		if err := yaml.Unmarshal(defaultYAML, &defaultTheme); err != nil {
			panic("theme: embedded default theme: " + err.Error())
		}
		if !defaultTheme.Colors.Complete() || defaultTheme.DarkColors == nil || !defaultTheme.DarkColors.Complete() {
			panic("theme: embedded default theme has an incomplete palette")
		}
	})
	t := defaultTheme
	dark := *defaultTheme.DarkColors
	t.DarkColors = &dark
	return &t
}
