package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackroad/br/internal/config"
	"github.com/blackroad/br/internal/gateway"
	"github.com/blackroad/br/internal/tui"
)

type watchOptions struct {
	interval int
	once     bool
	probe    bool
}

func newWatchCmd(a *app) *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Real-time system monitor",
		Long: `Redraw a status panel with load average and memory use every few seconds.

With --probe the gateway health endpoint is checked on each refresh; after
repeated failures probing pauses for a while instead of hammering a dead gateway.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWatch(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.interval, "interval", "i", config.DefaultWatchInterval, "Refresh interval in seconds")
	cmd.Flags().BoolVar(&opts.once, "once", false, "Print a single frame and exit")
	cmd.Flags().BoolVar(&opts.probe, "probe", false, "Show gateway health")

	return cmd
}

func (a *app) runWatch(cmd *cobra.Command, opts *watchOptions) error {
	interval := a.cfg.WatchInterval
	if cmd.Flags().Changed("interval") {
		interval = opts.interval
	}
	if interval <= 0 {
		return fmt.Errorf("interval must be a positive number of seconds, got %d", interval)
	}

	watchCfg := tui.WatchConfig{
		Interval: time.Duration(interval) * time.Second,
		Provider: a.deps.Metrics,
	}

	if opts.probe {
		client, err := a.gatewayClient()
		if err != nil {
			return err
		}
		watchCfg.Prober = gateway.NewProbe(client)
	}

	return tui.RunWatch(cmd.Context(), watchCfg, opts.once, a.deps.Out)
}

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Terminal dashboard (not available yet)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(a.deps.Out, tui.DashboardNotice())
			return err
		},
	}
}
