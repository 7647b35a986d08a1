package render

import (
	"strings"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Width != DefaultWidth {
		t.Errorf("expected Width=%d, got %d", DefaultWidth, opts.Width)
	}
	if opts.Style != StyleDark {
		t.Errorf("expected Style=%q, got %s", StyleDark, opts.Style)
	}
	if !opts.EnableEmoji || !opts.PreserveNewLines {
		t.Errorf("unexpected defaults: %+v", opts)
	}
}

func TestOptionsChaining(t *testing.T) {
	opts := DefaultOptions().
		WithWidth(100).
		WithStyle(StyleLight)

	want := Options{Width: 100, Style: StyleLight, EnableEmoji: true, PreserveNewLines: true}
	if opts != want {
		t.Errorf("got %+v, want %+v", opts, want)
	}
}

func TestMarkdown(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		width    int
		contains string
	}{
		{"heading", "# Gateway status", 80, "Gateway"},
		{"bold", "CECE is **online**", 80, "online"},
		{"code block", "```sh\nbr watch --once\n```", 80, "watch"},
		{"list", "- LUCIDIA\n- ALICE", 80, "ALICE"},
		{"narrow width", "# A heading long enough to wrap at forty columns", 40, "heading"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts := DefaultOptions().WithStyle(StyleNoTTY).WithWidth(tc.width)
			output, err := Markdown(tc.input, opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(output, tc.contains) {
				t.Errorf("output should contain %q, got: %s", tc.contains, output)
			}
		})
	}
}

func TestMarkdownEmoji(t *testing.T) {
	input := "Hello :smile: world"

	output, err := Markdown(input, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(output, ":smile:") {
		t.Errorf("emoji should have been converted, got: %s", output)
	}

	noEmoji := DefaultOptions()
	noEmoji.EnableEmoji = false
	output, err = Markdown(input, noEmoji)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, ":smile:") {
		t.Errorf("emoji should NOT have been converted, got: %s", output)
	}
}

func TestMarkdownInvalidStyle(t *testing.T) {
	_, err := Markdown("# Test", DefaultOptions().WithStyle("nonexistent_style_path"))
	if err == nil {
		t.Error("expected error for invalid style path")
	}
}

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer(DefaultOptions().WithStyle(StyleNoTTY))

	out, err := r.Render("**hello** from CECE")
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("Render() = %q, want it to contain hello", out)
	}
	if strings.HasPrefix(out, "\n") || strings.HasSuffix(out, "\n") {
		t.Errorf("Render() should trim surrounding newlines, got %q", out)
	}
}

func TestRenderer_RenderFallsBackToRaw(t *testing.T) {
	r := NewRenderer(DefaultOptions().WithStyle("missing/style.json"))

	out, err := r.Render("raw reply")
	if err == nil {
		t.Fatal("expected error for missing style file")
	}
	if out != "raw reply" {
		t.Errorf("Render() = %q, want raw text on failure", out)
	}
}
