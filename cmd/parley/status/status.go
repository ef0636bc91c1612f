// Package statuscmder provides the status command for inspecting the
// configured bot and its statement store.
package statuscmder

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/parleyhq/parley/cmd/parley/sqlitepath"
	"github.com/parleyhq/parley/pkg/cliui"
	"github.com/parleyhq/parley/pkg/config"
	"github.com/parleyhq/parley/pkg/dotdir"
	"github.com/parleyhq/parley/pkg/storage/sqlite"
	"github.com/parleyhq/parley/pkg/utils"
)

const statusLongDesc string = `Show the effective bot settings and the state of the statement store.

Settings resolve PARLEY_* environment > config.toml > defaults. The store
section reports how many statements the bot knows and how many of them are
usable replies. If a previous chat session left a record, it is shown too.

Examples:
  parley status
  parley status --sqlite ./parley.db`

const statusShortDesc string = "Show bot settings and store state"

type statusCommander struct {
	sqlitePath string
}

func NewStatusCmd() *cobra.Command {
	cmder := &statusCommander{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return cmder.run(cmd.Context(), configDir)
		},
	}

	cmd.Flags().StringVarP(&cmder.sqlitePath, "sqlite", "s", "", "Path to SQLite database")

	return cmd
}

func (c *statusCommander) run(ctx context.Context, configDir string) error {
	v, err := config.InitViper(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	provider := v.GetString("storage.provider")

	fmt.Println()
	fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Bot:       "), cliui.NameStyle.Render(v.GetString("bot.name")))
	fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Threshold: "), cliui.ValueStyle.Render(strconv.FormatFloat(v.GetFloat64("bot.similarity_threshold"), 'g', -1, 64)))
	fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Read-only: "), cliui.ValueStyle.Render(strconv.FormatBool(v.GetBool("bot.read_only"))))
	fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Corpora:   "), cliui.ValueStyle.Render(strings.Join(v.GetStringSlice("corpus.names"), ", ")))

	c.printStore(ctx, provider)
	c.printLastSession(configDir)

	fmt.Println()
	return nil
}

func (c *statusCommander) printStore(ctx context.Context, provider string) {
	if provider == "inmemory" {
		fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Storage:   "), cliui.DimStyle.Render("memory (nothing persisted)"))
		return
	}

	dbPath, err := sqlitepath.ResolveSQLitePath(c.sqlitePath)
	if err != nil {
		fmt.Printf("  %s No database yet. Run \"parley train\" or \"parley chat\" to create one.\n", cliui.DimStyle.Render("●"))
		return
	}

	fmt.Printf("  %s  %s\n", cliui.KeyStyle.Render("Storage:   "), cliui.ValueStyle.Render(dbPath))

	store, err := sqlite.NewDriver(ctx, dbPath)
	if err != nil {
		fmt.Printf("  %s could not open %s: %v\n", cliui.FailMark, dbPath, err)
		return
	}
	defer store.Close()

	count, err := store.Count(ctx)
	if err != nil {
		fmt.Printf("  %s could not count statements: %v\n", cliui.FailMark, err)
		return
	}

	replies, err := store.Replies(ctx)
	if err != nil {
		fmt.Printf("  %s could not load replies: %v\n", cliui.FailMark, err)
		return
	}

	fmt.Printf("  %s  %s %s\n",
		cliui.KeyStyle.Render("Statements:"),
		cliui.NameStyle.Render(strconv.Itoa(count)),
		cliui.DimStyle.Render(fmt.Sprintf("(%d replies)", len(replies))),
	)
}

func (c *statusCommander) printLastSession(configDir string) {
	record, err := dotdir.NewManager().LoadSessionRecord(configDir)
	if err != nil || record == nil {
		return
	}

	fmt.Printf("\n  %s %d turns ending %s %s\n",
		cliui.KeyStyle.Render("Last session:"),
		record.Turns,
		cliui.ValueStyle.Render(record.EndedAt.Format("2006-01-02 15:04:05")),
		cliui.DimStyle.Render("("+utils.Truncate(record.Session, 8)+")"),
	)
}
