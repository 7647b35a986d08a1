package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackroad/br/internal/config"
	"github.com/blackroad/br/internal/tui"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show gateway and agent status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStatus(cmd)
		},
	}
}

func (a *app) runStatus(cmd *cobra.Command) error {
	client, err := a.gatewayClient()
	if err != nil {
		return err
	}

	memoryDir, err := config.GetMemoryDir()
	if err != nil {
		memoryDir = "~/.blackroad/memory"
	}

	info := tui.StatusInfo{
		Version:    "v" + Version,
		GatewayURL: client.BaseURL(),
		Agents:     -1,
		MemoryDir:  memoryDir,
		Agent:      a.cfg.DefaultAgent,
	}

	spin := newSpinner(a.deps.Err, "Checking gateway")
	spin.start()

	overview, err := client.Overview(cmd.Context())
	spin.stop()
	if err != nil {
		a.logger.Debug("gateway overview incomplete", zap.Error(err))
	}
	if overview != nil {
		// The registry may be down while the gateway itself answers
		if overview.Health != nil {
			info.Online = true
			info.GatewayVersion = overview.Health.Version
		}
		if overview.Agents != nil {
			info.Agents = len(overview.Agents)
		}
	}

	_, err = fmt.Fprint(a.deps.Out, tui.RenderStatusPanel(info))
	return err
}

type agentsOptions struct {
	json bool
}

func newAgentsCmd(a *app) *cobra.Command {
	opts := &agentsOptions{}

	cmd := &cobra.Command{
		Use:   "agents",
		Short: "List agents registered with the gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.gatewayClient()
			if err != nil {
				return err
			}

			spin := newSpinner(a.deps.Err, "Loading agents")
			spin.start()
			agents, err := client.Agents(cmd.Context())
			spin.stop()
			if err != nil {
				return fmt.Errorf("failed to list agents: %w", err)
			}

			if opts.json {
				enc := json.NewEncoder(a.deps.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(agents)
			}
			_, err = fmt.Fprint(a.deps.Out, tui.RenderAgentsTable(agents))
			return err
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the registry as JSON")
	return cmd
}

func newGatewayCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Inspect the agent gateway",
	}

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check gateway health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.gatewayClient()
			if err != nil {
				return err
			}

			spin := newSpinner(a.deps.Err, "Checking gateway")
			spin.start()
			start := time.Now()
			health, err := client.Health(cmd.Context())
			if err != nil {
				spin.stop()
				return fmt.Errorf("gateway health check failed: %w", err)
			}
			spin.stopWithSuccess("Gateway reachable")

			fmt.Fprintf(a.deps.Out, "Gateway: %s\n", client.BaseURL())
			fmt.Fprintf(a.deps.Out, "Status:  %s\n", orUnknown(health.Status))
			fmt.Fprintf(a.deps.Out, "Version: %s\n", orUnknown(health.Version))
			fmt.Fprintf(a.deps.Out, "Uptime:  %s\n", formatUptime(health.Uptime))
			fmt.Fprintf(a.deps.Out, "Latency: %s\n", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	urlCmd := &cobra.Command{
		Use:   "url",
		Short: "Print the gateway URL in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(a.deps.Out, a.cfg.GatewayURL)
			return err
		},
	}

	cmd.AddCommand(healthCmd, urlCmd)
	return cmd
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func formatUptime(seconds float64) string {
	if seconds <= 0 {
		return "unknown"
	}
	return (time.Duration(seconds) * time.Second).String()
}
