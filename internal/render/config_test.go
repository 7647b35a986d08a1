package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blackroad/br/internal/config"
)

func TestOptionsFromConfig(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.Config
		env       string
		wantStyle string
	}{
		{"zero config", config.Config{}, "", StyleDark},
		{"default config", config.DefaultConfig(), "", StyleDark},
		{"configured style", config.Config{MarkdownStyle: StyleLight}, "", StyleLight},
		{"env overrides config", config.Config{MarkdownStyle: StyleLight}, StyleNoTTY, StyleNoTTY},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvStyle, tt.env)

			opts := OptionsFromConfig(tt.cfg)
			if opts.Style != tt.wantStyle {
				t.Errorf("Style = %q, want %q", opts.Style, tt.wantStyle)
			}
			if opts.Width <= 0 {
				t.Errorf("Width = %d, want positive", opts.Width)
			}
		})
	}
}

func TestOptionsFromConfig_Renders(t *testing.T) {
	t.Setenv(EnvStyle, StyleNoTTY)

	output, err := Markdown("# Test", OptionsFromConfig(config.DefaultConfig()))
	if err != nil {
		t.Fatalf("Markdown render failed with loaded options: %v", err)
	}
	if output == "" {
		t.Error("expected non-empty output")
	}
}

func TestTerminalWidth(t *testing.T) {
	if got := TerminalWidth(nil); got != DefaultWidth {
		t.Errorf("TerminalWidth(nil) = %d, want %d", got, DefaultWidth)
	}

	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if got := TerminalWidth(f); got != DefaultWidth {
		t.Errorf("TerminalWidth(regular file) = %d, want %d", got, DefaultWidth)
	}
}
