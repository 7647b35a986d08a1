package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/blackroad/br/internal/gateway"
	"github.com/blackroad/br/internal/metrics"
)

// WatchTitle heads the watch panel
const WatchTitle = "BlackRoad OS — Watch Mode"

// WatchFooter is printed under the panel
const WatchFooter = "Press Ctrl+C to stop"

// sampleTimeout bounds one metrics + probe round
const sampleTimeout = 5 * time.Second

// GatewayProber reports gateway reachability for the watch panel
type GatewayProber interface {
	Check(ctx context.Context) gateway.ProbeResult
}

// WatchFrame is everything one redraw of the panel shows
type WatchFrame struct {
	Snapshot metrics.Snapshot
	Tick     uint64
	// Gateway is the rendered gateway state; empty hides the row.
	Gateway string
}

// RenderWatchPanel draws one frame of the watch panel.
func RenderWatchPanel(frame WatchFrame) string {
	rows := []string{
		titleStyle.Render(WatchTitle),
		"",
		row("Load:", frame.Snapshot.Load),
		row("Mem:", frame.Snapshot.Mem),
		row("Tick:", fmt.Sprintf("%d", frame.Tick)),
	}
	if frame.Gateway != "" {
		rows = append(rows, labelStyle.Render(fmt.Sprintf("%-8s", "Gateway:"))+" "+frame.Gateway)
	}

	panel := panelStyle.Render(strings.Join(rows, "\n"))
	return panel + "\n" + hintStyle.Render("  "+WatchFooter) + "\n"
}

func row(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-8s", label)) + " " + valueStyle.Render(value)
}

// GatewayState renders a probe result for the panel
func GatewayState(r gateway.ProbeResult) string {
	switch {
	case r.Online && r.Health != nil && r.Health.Version != "":
		return onlineStyle.Render("● online") + hintStyle.Render(" v"+r.Health.Version)
	case r.Online:
		return onlineStyle.Render("● online")
	case r.Skipped:
		return pausedStyle.Render("● offline (retry paused)")
	default:
		return offlineStyle.Render("● offline")
	}
}

// WatchConfig configures the watch monitor
type WatchConfig struct {
	Interval time.Duration
	Provider metrics.Provider
	// Prober is optional; nil hides the gateway row.
	Prober GatewayProber
}

// Sample collects one frame's data (tick not set)
func Sample(ctx context.Context, cfg WatchConfig) WatchFrame {
	ctx, cancel := context.WithTimeout(ctx, sampleTimeout)
	defer cancel()

	frame := WatchFrame{Snapshot: cfg.Provider.Snapshot(ctx)}
	if cfg.Prober != nil {
		frame.Gateway = GatewayState(cfg.Prober.Check(ctx))
	}
	return frame
}

type watchKeyMap struct {
	Quit key.Binding
}

func (k watchKeyMap) ShortHelp() []key.Binding  { return []key.Binding{k.Quit} }
func (k watchKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

var watchKeys = watchKeyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "quit"),
	),
}

type (
	watchTickMsg   time.Time
	watchSampleMsg WatchFrame
)

// WatchModel is the bubbletea model behind `br watch`
type WatchModel struct {
	cfg     WatchConfig
	ctx     context.Context
	frame   WatchFrame
	samples uint64
	ready   bool
	help    help.Model
}

// NewWatchModel creates the watch model. A non-positive interval falls back to 2s.
func NewWatchModel(ctx context.Context, cfg WatchConfig) WatchModel {
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}
	if cfg.Provider == nil {
		cfg.Provider = metrics.NewSystemProvider()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return WatchModel{cfg: cfg, ctx: ctx, help: help.New()}
}

// Init takes the first sample immediately
func (m WatchModel) Init() tea.Cmd {
	return m.sample()
}

func (m WatchModel) sample() tea.Cmd {
	ctx, cfg := m.ctx, m.cfg
	return func() tea.Msg {
		return watchSampleMsg(Sample(ctx, cfg))
	}
}

func (m WatchModel) schedule() tea.Cmd {
	return tea.Tick(m.cfg.Interval, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

// Update handles key presses, timer ticks and finished samples
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, watchKeys.Quit) {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case watchTickMsg:
		return m, m.sample()

	case watchSampleMsg:
		m.frame = WatchFrame(msg)
		m.frame.Tick = m.samples
		m.samples++
		m.ready = true
		return m, m.schedule()
	}

	return m, nil
}

// View renders the current frame
func (m WatchModel) View() string {
	if !m.ready {
		return hintStyle.Render("  Collecting metrics...") + "\n"
	}
	return RenderWatchPanel(m.frame) + "\n  " + m.help.View(watchKeys) + "\n"
}

// Frame returns the frame currently shown
func (m WatchModel) Frame() WatchFrame {
	return m.frame
}

// RunWatch runs the monitor until the user quits or ctx is cancelled.
// With once set it prints a single frame to out and returns.
func RunWatch(ctx context.Context, cfg WatchConfig, once bool, out io.Writer) error {
	m := NewWatchModel(ctx, cfg)

	if once {
		_, err := io.WriteString(out, RenderWatchPanel(Sample(ctx, m.cfg)))
		return err
	}

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithOutput(out),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}
