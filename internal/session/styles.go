package session

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const bannerWidth = 39

var (
	colorBrand  = lipgloss.Color("5") // magenta
	colorPrompt = lipgloss.Color("6") // cyan
	colorDim    = lipgloss.Color("8")
)

type styles struct {
	rule   lipgloss.Style
	title  lipgloss.Style
	hint   lipgloss.Style
	prompt lipgloss.Style
	agent  lipgloss.Style
	end    lipgloss.Style
}

// newStyles binds styles to r so color is dropped when output is not a terminal
func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		rule:   r.NewStyle().Foreground(colorBrand),
		title:  r.NewStyle().Foreground(colorBrand).Bold(true),
		hint:   r.NewStyle().Foreground(colorDim),
		prompt: r.NewStyle().Foreground(colorPrompt),
		agent:  r.NewStyle().Foreground(colorBrand),
		end:    r.NewStyle().Foreground(colorPrompt),
	}
}

func (s *Session) printBanner() {
	rule := s.styles.rule.Render(strings.Repeat("━", bannerWidth))
	fmt.Fprintln(s.out, rule)
	fmt.Fprintln(s.out, s.styles.title.Render(fmt.Sprintf("  %s Agent Shell — BlackRoad OS", s.Agent)))
	fmt.Fprintln(s.out, rule)
	fmt.Fprintf(s.out, "  Gateway: %s\n", s.Gateway)
	fmt.Fprintf(s.out, "%s\n\n", s.styles.hint.Render("  Type 'exit' to quit"))
}

func (s *Session) printPrompt() {
	fmt.Fprintf(s.out, "%s ", s.styles.prompt.Render(s.Agent+" ❯"))
}

func (s *Session) printEnd() {
	fmt.Fprintln(s.out, s.styles.end.Render("Session ended."))
}
