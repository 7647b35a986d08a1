// Package render turns markdown agent replies into styled terminal output.
package render

// Built-in glamour style names accepted by Options.Style. Anything else is
// treated as a path to a glamour JSON style file.
const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
)

// DefaultWidth is used when the terminal width cannot be detected.
const DefaultWidth = 80

// Options configures reply rendering. It is comparable and used as a cache key.
type Options struct {
	Width int
	// Style is a built-in style name or a path to a JSON style file
	Style string
	// EnableEmoji converts :emoji: shortcodes
	EnableEmoji bool
	// PreserveNewLines keeps single line breaks agents use in plain replies
	PreserveNewLines bool
}

// DefaultOptions returns dark style at DefaultWidth with emoji and line breaks kept.
func DefaultOptions() Options {
	return Options{
		Width:            DefaultWidth,
		Style:            StyleDark,
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}
