package render

import (
	"os"

	"golang.org/x/term"

	"github.com/blackroad/br/internal/config"
)

// EnvStyle overrides the configured markdown style
const EnvStyle = "GLAMOUR_STYLE"

// OptionsFromConfig builds render options from user configuration.
// GLAMOUR_STYLE takes precedence over the config file.
func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()

	if cfg.MarkdownStyle != "" {
		opts = opts.WithStyle(cfg.MarkdownStyle)
	}
	if style := os.Getenv(EnvStyle); style != "" {
		opts = opts.WithStyle(style)
	}

	return opts.WithWidth(TerminalWidth(os.Stdout))
}

// TerminalWidth reports the width of f, or DefaultWidth when f is not a terminal.
func TerminalWidth(f *os.File) int {
	if f == nil {
		return DefaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	// Leave a small margin so glamour's padding does not wrap
	if width > 10 {
		width -= 2
	}
	return width
}
