// Package commands provides CLI commands for br.
package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackroad/br/internal/config"
	"github.com/blackroad/br/internal/logging"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// app carries state resolved once per invocation and shared by subcommands
type app struct {
	deps   *Dependencies
	cfg    config.Config
	logger *zap.Logger

	logLevelFlag string
	gatewayFlag  string
}

// NewRootCmd builds the br command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	a := &app{deps: deps, cfg: config.DefaultConfig(), logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:   "br",
		Short: "BlackRoad OS command line",
		Long: `br talks to a BlackRoad agent gateway.

Examples:
  br shell                      Chat with CECE
  br shell -a LUCIDIA           Chat with another agent
  br invoke ALICE "triage"      Hand an agent a one-shot task
  br watch -i 5                 Live system monitor
  br status                     Gateway and agent overview
  br config set markdown true   Render replies as markdown`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(a.deps.Out, "br %s (built %s)\n", Version, BuildTime)
				return nil
			}
			return cmd.Help()
		},
	}

	cmd.SetIn(deps.In)
	cmd.SetOut(deps.Out)
	cmd.SetErr(deps.Err)

	cmd.PersistentFlags().StringVar(&a.logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVarP(&a.gatewayFlag, "gateway", "g", config.DefaultGatewayURL, "Gateway URL")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(
		newShellCmd(a),
		newInvokeCmd(a),
		newWatchCmd(a),
		newTUICmd(a),
		newStatusCmd(a),
		newAgentsCmd(a),
		newGatewayCmd(a),
		newHistoryCmd(a),
		newConfigCmd(a),
	)

	return cmd
}

// setup loads .env, config and environment overrides, then applies flags.
// Precedence: flag > environment > config file > default.
func (a *app) setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(a.deps.DotEnvPaths...); err != nil {
		fmt.Fprintf(a.deps.Err, "Warning: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(a.deps.Err, "Warning: %v (using defaults)\n", err)
	}

	if cmd.Flags().Changed("gateway") {
		cfg.GatewayURL = strings.TrimSpace(a.gatewayFlag)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevelFlag
	}

	a.cfg = cfg
	a.logger = logging.NewLogger(cfg.LogLevel, a.deps.Err)
	a.logger.Debug("configuration loaded",
		zap.String("gateway", cfg.GatewayURL),
		zap.String("agent", cfg.DefaultAgent),
		zap.Bool("history", cfg.History),
		zap.Bool("markdown", cfg.Markdown))
	return nil
}

func (a *app) gatewayClient() (GatewayClient, error) {
	client, err := a.deps.NewGateway(a.cfg.GatewayURL, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway client: %w", err)
	}
	return client, nil
}

// Execute runs br and exits non-zero on failure
func Execute(ctx context.Context) {
	deps := NewDependencies()
	if err := NewRootCmd(deps).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(deps.Err, formatErrorMessage(err, "Error"))
		os.Exit(1)
	}
}
