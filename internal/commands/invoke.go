package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackroad/br/internal/render"
)

type invokeOptions struct {
	markdown bool
}

func newInvokeCmd(a *app) *cobra.Command {
	opts := &invokeOptions{}

	cmd := &cobra.Command{
		Use:   "invoke <agent> <task>",
		Short: "Invoke an agent with a one-shot task",
		Long: `Send a task to an agent through POST {gateway}/v1/invoke and print the
content of its result. Unlike the shell, a failed call is an error.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInvoke(cmd, opts, strings.TrimSpace(args[0]), strings.TrimSpace(args[1]))
		},
	}

	cmd.Flags().BoolVar(&opts.markdown, "markdown", false, "Render the result as markdown")
	return cmd
}

func (a *app) runInvoke(cmd *cobra.Command, opts *invokeOptions, agent, task string) error {
	if agent == "" || task == "" {
		return fmt.Errorf("agent and task must not be empty")
	}

	client, err := a.gatewayClient()
	if err != nil {
		return err
	}

	spin := newSpinner(a.deps.Err, "Invoking "+agent)
	spin.start()
	content, err := client.Invoke(cmd.Context(), agent, task)
	spin.stop()
	if err != nil {
		return fmt.Errorf("failed to invoke agent %q: %w", agent, err)
	}

	if a.cfg.Markdown || opts.markdown {
		out, rerr := render.NewRenderer(render.OptionsFromConfig(a.cfg)).Render(content)
		if rerr != nil {
			a.logger.Debug("markdown render failed", zap.Error(rerr))
		}
		content = out
	}

	_, err = fmt.Fprintln(a.deps.Out, content)
	return err
}
