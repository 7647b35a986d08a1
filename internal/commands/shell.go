package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackroad/br/internal/config"
	"github.com/blackroad/br/internal/render"
	"github.com/blackroad/br/internal/session"
)

type shellOptions struct {
	agent     string
	markdown  bool
	copy      bool
	history   bool
	noHistory bool
}

func newShellCmd(a *app) *cobra.Command {
	opts := &shellOptions{}

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive agent shell",
		Long: `Chat with a BlackRoad agent through the gateway.

Each line is sent to POST {gateway}/chat and the agent's reply is printed.
When the gateway cannot be reached the shell keeps running and prints an
offline notice instead. Type 'exit' or 'quit' (or press Ctrl+D) to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShell(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.agent, "agent", "a", config.DefaultAgent, "Agent name (LUCIDIA, ALICE, CECE, ...)")
	cmd.Flags().BoolVar(&opts.markdown, "markdown", false, "Render replies as markdown")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "Copy each reply to the clipboard")
	cmd.Flags().BoolVar(&opts.history, "history", false, "Record this session in the local transcript")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "Do not record this session, even if history is enabled")

	return cmd
}

func (a *app) runShell(cmd *cobra.Command, opts *shellOptions) error {
	agent := a.cfg.DefaultAgent
	if cmd.Flags().Changed("agent") {
		agent = strings.TrimSpace(opts.agent)
	}

	client, err := a.gatewayClient()
	if err != nil {
		return err
	}

	sessOpts := []session.Option{
		session.WithInput(a.deps.In),
		session.WithOutput(a.deps.Out),
		session.WithLogger(a.logger),
	}

	if a.cfg.Markdown || opts.markdown {
		sessOpts = append(sessOpts, session.WithFormatter(render.NewRenderer(render.OptionsFromConfig(a.cfg))))
	}
	if (a.cfg.CopyToClipboard || opts.copy) && a.deps.Clipboard != nil {
		sessOpts = append(sessOpts, session.WithClipboard(a.deps.Clipboard))
	}

	record := a.cfg.History || opts.history
	if opts.noHistory {
		record = false
	}
	if record {
		if store := a.openHistory(); store != nil {
			defer store.Close()
			sessOpts = append(sessOpts, session.WithRecorder(store, ""))
		}
	}

	sess := session.New(agent, client.BaseURL(), client, sessOpts...)
	a.logger.Debug("shell started",
		zap.String("agent", agent),
		zap.String("gateway", client.BaseURL()),
		zap.String("session", sess.SessionID()))

	return sess.Run(cmd.Context())
}

// openHistory opens the transcript store for recording; failures only disable recording
func (a *app) openHistory() HistoryStore {
	path, err := config.GetHistoryPath()
	if err != nil {
		a.logger.Warn("history disabled", zap.Error(err))
		return nil
	}
	store, err := a.deps.OpenHistory(path)
	if err != nil {
		a.logger.Warn("history disabled", zap.Error(err))
		return nil
	}
	return store
}
