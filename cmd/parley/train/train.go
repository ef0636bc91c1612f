// Package traincmder provides the train command for standalone corpus
// ingestion.
package traincmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/parleyhq/parley/pkg/cliui"
	"github.com/parleyhq/parley/pkg/config"
	"github.com/parleyhq/parley/pkg/corpus"
	"github.com/parleyhq/parley/pkg/logger"
	"github.com/parleyhq/parley/pkg/storage"
	"github.com/parleyhq/parley/pkg/storage/inmemory"
	"github.com/parleyhq/parley/pkg/storage/sqlite"
	"github.com/parleyhq/parley/pkg/trainer"
)

// trainLogFile is the JSON training record beneath the logs directory.
const trainLogFile = "train.log"

const trainLongDesc string = `Train the statement store from YAML corpora.

Each name is dotted relative to the corpus root: "english.greetings" loads
<root>/english/greetings.yml, and "english" loads every YAML file beneath
<root>/english/. With no names, the configured corpus list and the builtin
starter pairs are trained.

Progress prints to the terminal; a JSON record of every trained corpus is
appended to <logs-dir>/train.log. Unlike chat startup, a failure here is an
error, not a warning.

Examples:
  parley train
  parley train english.greetings
  parley train english --sqlite ./parley.db
  parley train --verbose`

const trainShortDesc string = "Train the statement store from corpora"

type trainCommander struct {
	configDir   string
	provider    string
	sqlitePath  string
	botName     string
	corpusPath  string
	corpusNames []string
	logsDir     string
	verbose     bool
}

func trainFlags() config.FlagSet {
	return config.FlagSet{
		config.FlagStorageProvider: {
			Name:        "storage-provider",
			ViperKey:    "storage.provider",
			Description: "Statement store backend (sqlite or inmemory)",
		},
		config.FlagSQLite: {
			Name:        "sqlite",
			Shorthand:   "s",
			ViperKey:    "storage.sqlite_path",
			Description: "Path to the SQLite database",
		},
		config.FlagCorpus: {
			Name:        "corpus",
			ViperKey:    "corpus.path",
			Description: "Corpus root directory",
		},
		config.FlagLogsDir: {
			Name:        "logs-dir",
			ViperKey:    "logs.dir",
			Description: "Directory the training log is written to",
		},
	}
}

func NewTrainCmd() *cobra.Command {
	cmder := &trainCommander{}

	cmd := &cobra.Command{
		Use:   "train [corpus ...]",
		Short: trainShortDesc,
		Long:  trainLongDesc,
		Args:  cobra.ArbitraryArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.bind(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd, args)
		},
	}

	flags := trainFlags()
	config.AddStringFlag(cmd, flags, config.FlagStorageProvider, &cmder.provider)
	config.AddStringFlag(cmd, flags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, flags, config.FlagCorpus, &cmder.corpusPath)
	config.AddStringFlag(cmd, flags, config.FlagLogsDir, &cmder.logsDir)
	cmd.Flags().BoolVarP(&cmder.verbose, "verbose", "v", false, "Log per-corpus detail to the terminal")

	return cmd
}

func (c *trainCommander) bind(cmd *cobra.Command) error {
	c.configDir, _ = cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(c.configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	flags := trainFlags()
	config.BindRegisteredFlags(v, cmd, flags, []string{
		config.FlagStorageProvider,
		config.FlagSQLite,
		config.FlagCorpus,
		config.FlagLogsDir,
	})

	c.provider = v.GetString("storage.provider")
	c.sqlitePath = v.GetString("storage.sqlite_path")
	c.botName = v.GetString("bot.name")
	c.corpusPath = v.GetString("corpus.path")
	c.corpusNames = v.GetStringSlice("corpus.names")
	c.logsDir = v.GetString("logs.dir")

	return nil
}

func (c *trainCommander) run(ctx context.Context, cmd *cobra.Command, names []string) error {
	store, err := c.newStorageDriver(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	log, closeLog, err := c.newTrainLogger(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	tr := trainer.New(store, log, c.botName)

	trainDefaults := false
	if len(names) == 0 {
		names = c.corpusNames
		trainDefaults = true
	}

	out := cmd.OutOrStdout()
	root := corpus.ResolveRoot(c.corpusPath)
	total := 0

	fmt.Fprintln(out)
	for _, name := range names {
		err := cliui.Step(out, fmt.Sprintf("Training %s", name), func() error {
			n, trainErr := tr.TrainCorpus(ctx, root, name)
			total += n
			return trainErr
		})
		if err != nil {
			return fmt.Errorf("training %s: %w", name, err)
		}
	}

	if trainDefaults {
		err := cliui.Step(out, "Training starter pairs", func() error {
			n, trainErr := tr.TrainList(ctx, trainer.DefaultPairs)
			total += n
			return trainErr
		})
		if err != nil {
			return fmt.Errorf("training starter pairs: %w", err)
		}
	}

	fmt.Fprintf(out, "\n  %s Stored %s statements %s\n\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(strconv.Itoa(total)),
		cliui.DimStyle.Render("into "+c.storeLabel()),
	)
	return nil
}

// newTrainLogger builds the trainer's logger: JSON to the training log
// always, pretty terminal output when --verbose is set.
func (c *trainCommander) newTrainLogger(cmd *cobra.Command) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(c.logsDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create logs directory: %w", err)
	}

	path := filepath.Join(c.logsDir, trainLogFile)
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open train log: %w", err)
	}

	fileLog := logger.New(logger.WithJSON(true), logger.WithWriter(file))
	if !c.verbose {
		return fileLog, func() { _ = file.Close() }, nil
	}

	prettyLog := logger.New(logger.WithPretty(true), logger.WithWriter(cmd.ErrOrStderr()))
	return logger.Multi(prettyLog, fileLog), func() { _ = file.Close() }, nil
}

func (c *trainCommander) newStorageDriver(ctx context.Context) (storage.Driver, error) {
	switch c.provider {
	case "inmemory":
		return inmemory.NewDriver(), nil
	case "", "sqlite":
		driver, err := sqlite.NewDriver(ctx, c.sqlitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store %s: %w (use --sqlite or storage.sqlite_path to relocate it)", c.sqlitePath, err)
		}
		return driver, nil
	default:
		return nil, storage.UnknownProviderError{Provider: c.provider}
	}
}

func (c *trainCommander) storeLabel() string {
	if c.provider == "inmemory" {
		return "memory"
	}
	return c.sqlitePath
}
