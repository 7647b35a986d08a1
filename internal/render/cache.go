package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// glamour.TermRenderer is not safe for concurrent Render calls, so every
// cached renderer carries its own lock.
type cachedRenderer struct {
	mu sync.Mutex
	tr *glamour.TermRenderer
}

func (c *cachedRenderer) render(content string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tr.Render(content)
}

// renderers holds one renderer per distinct Options value
var renderers = struct {
	sync.Mutex
	m map[Options]*cachedRenderer
}{m: make(map[Options]*cachedRenderer)}

// lookup returns the cached renderer for opts, building it on first use.
// Build failures are not cached.
func lookup(opts Options) (*cachedRenderer, error) {
	renderers.Lock()
	defer renderers.Unlock()

	if c, ok := renderers.m[opts]; ok {
		return c, nil
	}

	tr, err := createRenderer(opts)
	if err != nil {
		return nil, err
	}
	c := &cachedRenderer{tr: tr}
	renderers.m[opts] = c
	return c, nil
}

func createRenderer(opts Options) (*glamour.TermRenderer, error) {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}

	rendererOpts := []glamour.TermRendererOption{
		glamour.WithWordWrap(width),
	}

	switch opts.Style {
	case StyleAuto, "":
		rendererOpts = append(rendererOpts, glamour.WithAutoStyle())
	default:
		// Built-in names and JSON file paths are both resolved by WithStylePath
		rendererOpts = append(rendererOpts, glamour.WithStylePath(opts.Style))
	}

	if opts.EnableEmoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}

	return glamour.NewTermRenderer(rendererOpts...)
}

// ClearCache drops all cached renderers
func ClearCache() {
	renderers.Lock()
	renderers.m = make(map[Options]*cachedRenderer)
	renderers.Unlock()
}

// CacheSize returns the number of cached renderers
func CacheSize() int {
	renderers.Lock()
	defer renderers.Unlock()
	return len(renderers.m)
}
