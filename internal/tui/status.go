package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/blackroad/br/internal/gateway"
)

// StatusInfo is what `br status` reports
type StatusInfo struct {
	Version    string
	GatewayURL string
	Online     bool
	// GatewayVersion is empty when unknown
	GatewayVersion string
	// Agents is the registry size, or -1 when the gateway could not be asked
	Agents    int
	MemoryDir string
	Agent     string
}

// RenderStatusPanel draws the status header and one bullet per fact
func RenderStatusPanel(info StatusInfo) string {
	var sb strings.Builder

	title := "BlackRoad OS — br"
	if info.Version != "" {
		title += " " + info.Version
	}
	sb.WriteString(panelStyle.Render(titleStyle.Render(title)))
	sb.WriteString("\n")

	gw := info.GatewayURL
	if info.Online {
		state := "online"
		if info.GatewayVersion != "" {
			state += " v" + info.GatewayVersion
		}
		gw += " " + onlineStyle.Render("("+state+")")
	} else {
		gw += " " + offlineStyle.Render("(offline)")
	}
	sb.WriteString(bullet(bulletStyle, "Gateway:", gw))

	agents := "unknown"
	if info.Agents >= 0 {
		agents = fmt.Sprintf("%d registered", info.Agents)
	}
	sb.WriteString(bullet(bulletStyle, "Agents:", agents))
	sb.WriteString(bullet(bulletStyle, "Memory:", info.MemoryDir))

	if info.Agent != "" {
		presence := offlineStyle.Render("Offline")
		if info.Online {
			presence = onlineStyle.Render("Online")
		}
		sb.WriteString(bullet(agentBulletStyle, info.Agent+":", presence))
	}

	return sb.String()
}

func bullet(style lipgloss.Style, label, value string) string {
	return style.Render("● "+label) + " " + value + "\n"
}

// RenderAgentsTable lays out the agent registry as a table
func RenderAgentsTable(agents []gateway.Agent) string {
	if len(agents) == 0 {
		return hintStyle.Render("No agents registered.") + "\n"
	}

	rows := make([][]string, 0, len(agents))
	for _, a := range agents {
		rows = append(rows, []string{a.Name, orDash(a.Title), orDash(a.Role)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers("AGENT", "TITLE", "ROLE").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})

	return t.Render() + "\n"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// DashboardNotice is shown by `br tui`, which has no dashboard yet
func DashboardNotice() string {
	body := titleStyle.Render("BlackRoad OS — Dashboard") + "\n" +
		hintStyle.Render("The full dashboard is not available yet.") + "\n" +
		hintStyle.Render("Try `br watch` or `br shell`.")
	return noticeStyle.Render(body) + "\n"
}
