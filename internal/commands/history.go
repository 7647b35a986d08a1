package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/blackroad/br/internal/config"
	"github.com/blackroad/br/internal/history"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse recorded shell sessions",
		Long: `View and manage the local transcript of shell sessions.

Offline exchanges are recorded too; they are never re-sent.`,
	}

	var listLimit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent exchanges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withHistory(func(store HistoryStore) error {
				return a.runHistoryList(cmd, store, listLimit)
			})
		},
	}
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "Number of exchanges to show")

	var sessionsLimit int
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withHistory(func(store HistoryStore) error {
				return a.runHistorySessions(cmd, store, sessionsLimit)
			})
		},
	}
	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", 20, "Number of sessions to show")

	var format string
	showCmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print one session as markdown or JSON",
		Long: `Print a recorded session. The id may be any unique prefix
of a session id from 'br history sessions'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exportFormat, err := history.ParseExportFormat(format)
			if err != nil {
				return err
			}
			return a.withHistory(func(store HistoryStore) error {
				id, err := store.ResolveSession(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				data, err := store.Export(cmd.Context(), id, exportFormat)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(a.deps.Out, string(data))
				return err
			})
		},
	}
	showCmd.Flags().StringVarP(&format, "format", "f", "markdown", "Output format: markdown or json")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded exchanges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withHistory(func(store HistoryStore) error {
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
				_, err := fmt.Fprintln(a.deps.Out, "History cleared.")
				return err
			})
		},
	}

	cmd.AddCommand(listCmd, sessionsCmd, showCmd, clearCmd)
	return cmd
}

func (a *app) withHistory(fn func(HistoryStore) error) error {
	path, err := config.GetHistoryPath()
	if err != nil {
		return err
	}
	store, err := a.deps.OpenHistory(path)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func (a *app) runHistoryList(cmd *cobra.Command, store HistoryStore, limit int) error {
	exchanges, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if len(exchanges) == 0 {
		_, err := fmt.Fprintln(a.deps.Out, "No history found.")
		return err
	}

	w := tabwriter.NewWriter(a.deps.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIME\tAGENT\tMESSAGE\tREPLY")
	_, _ = fmt.Fprintln(w, "----\t-----\t-------\t-----")

	for _, e := range exchanges {
		reply := truncate(e.Reply, 40)
		if e.Offline {
			reply = "(offline)"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Agent, truncate(e.Message, 40), reply)
	}

	return w.Flush()
}

func (a *app) runHistorySessions(cmd *cobra.Command, store HistoryStore, limit int) error {
	sessions, err := store.Sessions(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		_, err := fmt.Fprintln(a.deps.Out, "No sessions found.")
		return err
	}

	w := tabwriter.NewWriter(a.deps.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tAGENT\tEXCHANGES\tSTARTED\tLAST")
	_, _ = fmt.Fprintln(w, "--\t-----\t---------\t-------\t----")

	for _, s := range sessions {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			shortID(s.SessionID), s.Agent, s.Exchanges,
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			s.EndedAt.Local().Format("15:04"))
	}

	return w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
