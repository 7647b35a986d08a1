package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ExportFormat represents the format for exporting sessions
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ParseExportFormat validates a user-supplied format name
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return ExportFormatMarkdown, nil
	case "json":
		return ExportFormatJSON, nil
	}
	return "", fmt.Errorf("unknown export format %q (markdown, json)", s)
}

// Export renders one session in the requested format
func (s *Store) Export(ctx context.Context, sessionID string, format ExportFormat) ([]byte, error) {
	exchanges, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch format {
	case ExportFormatJSON:
		return ExportJSON(sessionID, exchanges)
	default:
		return []byte(ExportMarkdown(sessionID, exchanges)), nil
	}
}

// ExportMarkdown renders a transcript as Markdown
func ExportMarkdown(sessionID string, exchanges []Exchange) string {
	var sb strings.Builder

	agent := ""
	if len(exchanges) > 0 {
		agent = exchanges[0].Agent
	}

	sb.WriteString("# ")
	sb.WriteString(agent)
	sb.WriteString(" session\n\n")

	sb.WriteString("**Session:** ")
	sb.WriteString(sessionID)
	sb.WriteString("\n")
	if len(exchanges) > 0 {
		sb.WriteString("**Started:** ")
		sb.WriteString(exchanges[0].CreatedAt.Local().Format("2006-01-02 15:04:05"))
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("**Exchanges:** %d\n\n---\n\n", len(exchanges)))

	for i, e := range exchanges {
		sb.WriteString("## You (")
		sb.WriteString(e.CreatedAt.Local().Format("15:04:05"))
		sb.WriteString(")\n\n")
		sb.WriteString(e.Message)
		sb.WriteString("\n\n## ")
		sb.WriteString(e.Agent)
		if e.Offline {
			sb.WriteString(" (offline)")
		}
		sb.WriteString("\n\n")
		sb.WriteString(e.Reply)
		sb.WriteString("\n")

		if i < len(exchanges)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

// ExportJSON renders a transcript as indented JSON
func ExportJSON(sessionID string, exchanges []Exchange) ([]byte, error) {
	type exportExchange struct {
		Message   string `json:"message"`
		Reply     string `json:"reply"`
		Offline   bool   `json:"offline,omitempty"`
		Timestamp string `json:"timestamp"`
	}
	type exportSession struct {
		SessionID string           `json:"session_id"`
		Agent     string           `json:"agent"`
		Exchanges []exportExchange `json:"exchanges"`
	}

	out := exportSession{SessionID: sessionID, Exchanges: make([]exportExchange, 0, len(exchanges))}
	for _, e := range exchanges {
		if out.Agent == "" {
			out.Agent = e.Agent
		}
		out.Exchanges = append(out.Exchanges, exportExchange{
			Message:   e.Message,
			Reply:     e.Reply,
			Offline:   e.Offline,
			Timestamp: e.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	return data, nil
}
