package render

import "strings"

// Markdown renders content with a cached renderer for opts.
func Markdown(content string, opts Options) (string, error) {
	c, err := lookup(opts)
	if err != nil {
		return "", err
	}
	return c.render(content)
}

// Renderer renders agent replies with fixed options.
type Renderer struct {
	opts Options
}

// NewRenderer returns a Renderer for opts
func NewRenderer(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Render returns the styled reply with glamour's surrounding blank lines trimmed.
// On failure the raw text is returned alongside the error.
func (r *Renderer) Render(text string) (string, error) {
	out, err := Markdown(text, r.opts)
	if err != nil {
		return text, err
	}
	return strings.Trim(out, "\n"), nil
}
