package render

import (
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// Built-in markdown theme names
const (
	ThemeDark       = "dark"
	ThemeLight      = "light"
	ThemeTokyoNight = "tokyonight"
	ThemeCatppuccin = "catppuccin"
	ThemeNord       = "nord"
	ThemeDracula    = "dracula"
	ThemeNoTTY      = "notty"
	ThemeASCII      = "ascii"
)

// ThemeInfo describes a markdown theme for listing
type ThemeInfo struct {
	Name        string
	Description string
}

var markdownThemes = []ThemeInfo{
	{ThemeDark, "Dark background (default)"},
	{ThemeLight, "Light background"},
	{ThemeTokyoNight, "Tokyo Night palette"},
	{ThemeCatppuccin, "Catppuccin Mocha palette"},
	{ThemeNord, "Nord palette"},
	{ThemeDracula, "Dracula palette"},
	{ThemeNoTTY, "Plain styling for non-terminal output"},
	{ThemeASCII, "ASCII only, no colors"},
}

// BuiltinStyle returns the glamour style for a built-in theme name.
// Catppuccin and Nord are the dark style tinted with the matching TUI palette.
func BuiltinStyle(name string) (ansi.StyleConfig, bool) {
	switch name {
	case ThemeDark:
		return styles.DarkStyleConfig, true
	case ThemeLight:
		return styles.LightStyleConfig, true
	case ThemeTokyoNight:
		return styles.TokyoNightStyleConfig, true
	case ThemeCatppuccin:
		return tinted(styles.DarkStyleConfig, CatppuccinMochaTheme), true
	case ThemeNord:
		return tinted(styles.DarkStyleConfig, NordTheme), true
	case ThemeDracula:
		return styles.DraculaStyleConfig, true
	case ThemeNoTTY:
		return styles.NoTTYStyleConfig, true
	case ThemeASCII:
		return styles.ASCIIStyleConfig, true
	default:
		return ansi.StyleConfig{}, false
	}
}

// IsBuiltinStyle returns true if style names a built-in theme rather than a file path
func IsBuiltinStyle(style string) bool {
	_, ok := BuiltinStyle(style)
	return ok
}

// tinted recolors the main elements of base. Only top-level pointers are
// replaced, so base itself is never modified.
func tinted(base ansi.StyleConfig, theme TUITheme) ansi.StyleConfig {
	cfg := base

	text := string(theme.Text)
	background := string(theme.Background)
	primary := string(theme.Primary)
	secondary := string(theme.Secondary)
	accent := string(theme.Accent)
	warning := string(theme.Warning)
	dim := string(theme.TextDim)

	cfg.Document.Color = &text
	cfg.Heading.Color = &primary
	cfg.H1.Color = &background
	cfg.H1.BackgroundColor = &primary
	cfg.BlockQuote.Color = &dim
	cfg.HorizontalRule.Color = &dim
	cfg.Link.Color = &accent
	cfg.LinkText.Color = &secondary
	cfg.Code.Color = &warning
	cfg.Item.Color = &text
	cfg.Enumeration.Color = &accent

	return cfg
}

// AvailableThemes returns all built-in markdown themes, default first
func AvailableThemes() []ThemeInfo {
	out := make([]ThemeInfo, len(markdownThemes))
	copy(out, markdownThemes)
	return out
}

// ThemeNames returns just the theme names
func ThemeNames() []string {
	names := make([]string, len(markdownThemes))
	for i, t := range markdownThemes {
		names[i] = t.Name
	}
	return names
}
