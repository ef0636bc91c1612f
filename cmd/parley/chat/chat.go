// Package chatcmder provides the interactive chat session command.
package chatcmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/parleyhq/parley/pkg/bot"
	"github.com/parleyhq/parley/pkg/config"
	"github.com/parleyhq/parley/pkg/corpus"
	"github.com/parleyhq/parley/pkg/dotdir"
	"github.com/parleyhq/parley/pkg/logger"
	"github.com/parleyhq/parley/pkg/repl"
	"github.com/parleyhq/parley/pkg/storage"
	"github.com/parleyhq/parley/pkg/storage/inmemory"
	"github.com/parleyhq/parley/pkg/storage/sqlite"
	"github.com/parleyhq/parley/pkg/trainer"
)

const chatLongDesc string = `Start an interactive chat session.

The session reads lines from the prompt, answers each one from the trained
statement store, and appends a structured record of every exchange to the
session log. The terminal stays clean: logging goes to the file only.

Commands inside the session:
  :help, :h          show the hint line
  :quit, :q, :exit   end the session

Settings resolve flag > PARLEY_* environment > config.toml > defaults.

Examples:
  parley chat
  parley chat --sqlite ./parley.db
  parley chat --read-only
  parley chat --bot-name Bartleby --similarity-threshold 0.8`

const chatShortDesc string = "Interactive terminal chat session"

type chatCommander struct {
	configDir       string
	provider        string
	sqlitePath      string
	botName         string
	defaultResponse string
	threshold       float64
	readOnly        bool
	corpusPath      string
	corpusNames     []string
	logsDir         string
	debug           bool
}

func chatFlags() config.FlagSet {
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
		config.FlagBotName: {
			Name:        "bot-name",
			Shorthand:   "n",
			ViperKey:    "bot.name",
			Description: "Persona the bot answers as",
		},
		config.FlagDefaultResponse: {
			Name:        "default-response",
			ViperKey:    "bot.default_response",
			Description: "Reply used when no match clears the threshold",
		},
		config.FlagThreshold: {
			Name:        "similarity-threshold",
			ViperKey:    "bot.similarity_threshold",
			Description: "Minimum similarity for a match (0 to 1)",
		},
		config.FlagReadOnly: {
			Name:        "read-only",
			ViperKey:    "bot.read_only",
			Description: "Answer without learning new statements",
		},
		config.FlagCorpus: {
			Name:        "corpus",
			ViperKey:    "corpus.path",
			Description: "Corpus root directory",
		},
		config.FlagLogsDir: {
			Name:        "logs-dir",
			ViperKey:    "logs.dir",
			Description: "Directory the session log is written to",
		},
	}
}

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.bind(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")

			code, err := cmder.run(cmd.Context())
			if err != nil {
				return err
			}
			if code != repl.ExitOK {
				os.Exit(code)
			}
			return nil
		},
	}

	flags := chatFlags()
	config.AddStringFlag(cmd, flags, config.FlagStorageProvider, &cmder.provider)
	config.AddStringFlag(cmd, flags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, flags, config.FlagBotName, &cmder.botName)
	config.AddStringFlag(cmd, flags, config.FlagDefaultResponse, &cmder.defaultResponse)
	config.AddFloat64Flag(cmd, flags, config.FlagThreshold, &cmder.threshold)
	config.AddBoolFlag(cmd, flags, config.FlagReadOnly, &cmder.readOnly)
	config.AddStringFlag(cmd, flags, config.FlagCorpus, &cmder.corpusPath)
	config.AddStringFlag(cmd, flags, config.FlagLogsDir, &cmder.logsDir)

	return cmd
}

// bind resolves every chat setting through viper so flags beat environment
// beats config.toml beats defaults.
func (c *chatCommander) bind(cmd *cobra.Command) error {
	c.configDir, _ = cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(c.configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	flags := chatFlags()
	config.BindRegisteredFlags(v, cmd, flags, []string{
		config.FlagStorageProvider,
		config.FlagSQLite,
		config.FlagBotName,
		config.FlagDefaultResponse,
		config.FlagThreshold,
		config.FlagReadOnly,
		config.FlagCorpus,
		config.FlagLogsDir,
	})

	c.provider = v.GetString("storage.provider")
	c.sqlitePath = v.GetString("storage.sqlite_path")
	c.botName = v.GetString("bot.name")
	c.defaultResponse = v.GetString("bot.default_response")
	c.threshold = v.GetFloat64("bot.similarity_threshold")
	c.readOnly = v.GetBool("bot.read_only")
	c.corpusPath = v.GetString("corpus.path")
	c.corpusNames = v.GetStringSlice("corpus.names")
	c.logsDir = v.GetString("logs.dir")

	return nil
}

func (c *chatCommander) run(ctx context.Context) (int, error) {
	sessionLogger, closeLog, err := logger.NewSessionLogger(c.logsDir, c.debug)
	if err != nil {
		return repl.ExitOK, fmt.Errorf("opening session log: %w", err)
	}
	defer func() {
		_ = sessionLogger.Sync()
		_ = closeLog()
	}()

	store, err := c.newStorageDriver(ctx)
	if err != nil {
		return repl.ExitOK, err
	}
	defer store.Close()

	sessionLogger.Named("storage").Info("opened statement store",
		zap.String("provider", c.provider),
		zap.String("path", c.sqlitePath),
	)

	c.train(ctx, store, sessionLogger)

	b := bot.New(store, sessionLogger.Named("bot"), bot.Options{
		Name:                c.botName,
		DefaultResponse:     c.defaultResponse,
		SimilarityThreshold: c.threshold,
		ReadOnly:            c.readOnly,
	})

	input, interactive := c.newInputReader()
	defer input.Close()

	if !interactive {
		// A plain stdin read cannot observe Ctrl+C, so the interrupt
		// path is handled here. Line-edited input reports it as an
		// aborted prompt instead and never reaches this handler.
		interrupts := make(chan os.Signal, 1)
		signal.Notify(interrupts, os.Interrupt)
		go func() {
			<-interrupts
			fmt.Println(repl.InterruptedReply)
			os.Exit(repl.ExitInterrupted)
		}()
	}

	session := repl.New(b, input, os.Stdout, sessionLogger.Named("session"))

	started := time.Now().UTC()
	code, err := session.Run(ctx)
	if err != nil {
		return code, err
	}

	record := &dotdir.SessionRecord{
		Session:   b.Session(),
		StartedAt: started,
		EndedAt:   time.Now().UTC(),
		Turns:     session.Turns(),
	}
	if err := dotdir.NewManager().SaveSession(record, c.configDir); err != nil {
		sessionLogger.Warn("could not save session record", zap.Error(err))
	}

	return code, nil
}

// train loads the configured corpora and the builtin pairs. Failures are
// logged and absorbed so an untrained bot still answers with its default
// response.
func (c *chatCommander) train(ctx context.Context, store storage.Driver, log *zap.Logger) {
	// Trainer detail stays out of the session log; failures surface below.
	tr := trainer.New(store, logger.Nop(), c.botName)
	corpusLog := log.Named("corpus")

	root := corpus.ResolveRoot(c.corpusPath)
	if n, err := tr.TrainCorpus(ctx, root, c.corpusNames...); err != nil {
		corpusLog.Warn("corpus training skipped due to error",
			zap.Strings("corpora", c.corpusNames),
			zap.Int("stored", n),
			zap.Error(err),
		)
	}

	if _, err := tr.TrainList(ctx, trainer.DefaultPairs); err != nil {
		corpusLog.Warn("list training skipped due to error", zap.Error(err))
	}
}

func (c *chatCommander) newStorageDriver(ctx context.Context) (storage.Driver, error) {
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

// newInputReader picks line-edited input on a terminal and plain scanning
// for pipes, so piped sessions print byte-identical output.
func (c *chatCommander) newInputReader() (repl.InputReader, bool) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return repl.NewScannerInput(os.Stdin, os.Stdout), false
	}

	historyFile := ""
	if path, err := dotdir.NewManager().HistoryPath(c.configDir); err == nil {
		historyFile = path
	}

	return repl.NewLinerInput(historyFile), true
}
