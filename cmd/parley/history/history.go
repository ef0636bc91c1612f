// Package historycmder provides the history command for browsing stored statements.
package historycmder

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/parleyhq/parley/cmd/parley/sqlitepath"
	"github.com/parleyhq/parley/pkg/conversation"
	"github.com/parleyhq/parley/pkg/storage"
	"github.com/parleyhq/parley/pkg/storage/sqlite"
	"github.com/parleyhq/parley/pkg/utils"
)

const historyLongDesc string = `Browse the statements the bot has stored.

Opens a TUI listing recent statements, newest first. Select a statement
to inspect its full text, the prompt it answers, and where it came from.
Writes a plain listing instead when stdout is not a terminal or --plain
is set.

Examples:
  parley history
  parley history --limit 200
  parley history --conversation training
  parley history --plain | grep -i goodbye
  parley history --sqlite ./db.sqlite3
`

const historyShortDesc string = "Browse stored statements"

type historyCommander struct {
	sqlitePath   string
	limit        int
	conversation string
	plain        bool
}

func NewHistoryCmd() *cobra.Command {
	cmder := &historyCommander{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: historyShortDesc,
		Long:  historyLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.sqlitePath, "sqlite", "s", "", "Path to SQLite database")
	cmd.Flags().IntVarP(&cmder.limit, "limit", "n", 50, "Maximum statements to load")
	cmd.Flags().StringVar(&cmder.conversation, "conversation", "", "Only statements carrying this conversation tag")
	cmd.Flags().BoolVar(&cmder.plain, "plain", false, "Print a plain listing instead of the TUI")

	return cmd
}

func (c *historyCommander) run(ctx context.Context, cmd *cobra.Command) error {
	sqlitePath, err := sqlitepath.ResolveSQLitePath(c.sqlitePath)
	if err != nil {
		return err
	}

	store, err := sqlite.NewDriver(ctx, sqlitePath)
	if err != nil {
		return fmt.Errorf("opening sqlite store %s: %w", sqlitePath, err)
	}
	defer store.Close()

	statements, err := loadStatements(ctx, store, c.limit, c.conversation)
	if err != nil {
		return err
	}

	if c.plain || !term.IsTerminal(int(os.Stdout.Fd())) {
		printPlain(cmd.OutOrStdout(), statements)
		return nil
	}

	return runHistoryTUI(ctx, store, c.limit, c.conversation, statements)
}

// loadStatements reads up to limit recent statements, keeping only those
// matching the conversation tag when one is given.
func loadStatements(ctx context.Context, store storage.Driver, limit int, conversationTag string) ([]*conversation.Statement, error) {
	statements, err := store.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("loading statements: %w", err)
	}
	if conversationTag == "" {
		return statements, nil
	}

	filtered := make([]*conversation.Statement, 0, len(statements))
	for _, st := range statements {
		if st.Conversation == conversationTag {
			filtered = append(filtered, st)
		}
	}

	return filtered, nil
}

func printPlain(out io.Writer, statements []*conversation.Statement) {
	if len(statements) == 0 {
		fmt.Fprintln(out, "No statements stored yet. Run \"parley train\" or \"parley chat\" first.")
		return
	}

	for _, st := range statements {
		fmt.Fprintf(out, "%s  %-11s  %s\n",
			st.CreatedAt.Format("2006-01-02 15:04"),
			sourceLabel(st),
			utils.Truncate(st.Text, 72),
		)
	}
}

// sourceLabel reports where a statement came from: the training corpus or a
// shortened chat session id.
func sourceLabel(st *conversation.Statement) string {
	if st.Conversation == conversation.TrainingConversation {
		return conversation.TrainingConversation
	}
	if st.Conversation == "" {
		return "unknown"
	}
	return utils.Truncate(st.Conversation, 8)
}
