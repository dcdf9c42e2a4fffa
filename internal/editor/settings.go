// Package editor manages the embedded code editor session: its persisted
// settings, keyboard bindings, scroll policy and the format, copy, download
// and reset affordances.
package editor

import (
	"errors"
	"fmt"
)

// Theme is the editor color theme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// WordWrap controls whether long lines wrap or scroll horizontally.
type WordWrap string

const (
	WordWrapOn  WordWrap = "on"
	WordWrapOff WordWrap = "off"
)

// Font size bounds. A terminal cannot resize glyphs, so the size is persisted
// and shown in the editor status line only.
const (
	MinFontSize     = 10
	MaxFontSize     = 24
	DefaultFontSize = 14
)

// Settings are the persisted editor preferences.
type Settings struct {
	Theme          Theme    `json:"theme"`
	FontSize       int      `json:"fontSize"`
	MinimapEnabled bool     `json:"minimapEnabled"`
	WordWrap       WordWrap `json:"wordWrap"`
}

// DefaultSettings returns the settings used when nothing valid is stored.
func DefaultSettings() Settings {
	return Settings{
		Theme:          ThemeDark,
		FontSize:       DefaultFontSize,
		MinimapEnabled: true,
		WordWrap:       WordWrapOn,
	}
}

// ClampFontSize bounds n to [MinFontSize, MaxFontSize].
func ClampFontSize(n int) int {
	return max(MinFontSize, min(MaxFontSize, n))
}

// ErrInvalidSetting is returned for out-of-domain setting values.
var ErrInvalidSetting = errors.New("invalid setting")

// Setting is a single-key settings change.
type Setting interface {
	apply(s Settings) (Settings, error)
}

// ThemeSetting changes the color theme.
type ThemeSetting struct{ Theme Theme }

func (t ThemeSetting) apply(s Settings) (Settings, error) {
	switch t.Theme {
	case ThemeDark, ThemeLight:
		s.Theme = t.Theme
		return s, nil
	}
	return s, fmt.Errorf("%w: theme %q", ErrInvalidSetting, t.Theme)
}

// FontSizeSetting changes the font size. Out-of-range values are clamped.
type FontSizeSetting struct{ Size int }

func (f FontSizeSetting) apply(s Settings) (Settings, error) {
	s.FontSize = ClampFontSize(f.Size)
	return s, nil
}

// MinimapSetting shows or hides the minimap.
type MinimapSetting struct{ Enabled bool }

func (m MinimapSetting) apply(s Settings) (Settings, error) {
	s.MinimapEnabled = m.Enabled
	return s, nil
}

// WordWrapSetting switches word wrapping.
type WordWrapSetting struct{ Mode WordWrap }

func (w WordWrapSetting) apply(s Settings) (Settings, error) {
	switch w.Mode {
	case WordWrapOn, WordWrapOff:
		s.WordWrap = w.Mode
		return s, nil
	}
	return s, fmt.Errorf("%w: word wrap %q", ErrInvalidSetting, w.Mode)
}
