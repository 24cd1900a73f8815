// Package render turns assistant replies into styled terminal markdown and
// holds the color themes of the chat interface.
package render

// minWidth keeps very narrow terminals from producing one word per line
const minWidth = 20

// Options configures the markdown renderer. Options is comparable and is
// used directly as the renderer pool key.
type Options struct {
	Width            int
	Style            string // built-in theme name or path to a glamour JSON style
	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            ThemeDark,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// WithWidth returns Options with the specified width, clamped to a minimum.
func (o Options) WithWidth(width int) Options {
	if width < minWidth {
		width = minWidth
	}
	o.Width = width
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// WithEmoji returns Options with emoji support enabled/disabled.
func (o Options) WithEmoji(enabled bool) Options {
	o.EnableEmoji = enabled
	return o
}
