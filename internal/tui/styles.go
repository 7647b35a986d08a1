// Package tui provides the terminal panels for br: the live watch monitor,
// the status panel, the agents table and the dashboard notice.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	colorBorder    = lipgloss.Color("#7dcfff")
	colorPrimary   = lipgloss.Color("#7aa2f7")
	colorSecondary = lipgloss.Color("#bb9af7")
	colorSuccess   = lipgloss.Color("#9ece6a")
	colorWarning   = lipgloss.Color("#e0af68")
	colorError     = lipgloss.Color("#f7768e")
	colorText      = lipgloss.Color("#c0caf5")
	colorTextDim   = lipgloss.Color("#565f89")
)

// panelWidth is the inner width of the watch and status boxes
const panelWidth = 40

var (
	// Boxed panel shared by watch and status
	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			Width(panelWidth)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorText)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	onlineStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	pausedStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	offlineStyle = lipgloss.NewStyle().
			Foreground(colorError)

	bulletStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	agentBulletStyle = lipgloss.NewStyle().
				Foreground(colorSecondary)

	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				Padding(0, 1)

	tableCellStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorSecondary).
			Padding(0, 2)
)
