package config

import (
	"github.com/parleyhq/parley/pkg/bot"
)

const (
	defaultStorageProvider = "sqlite"
	defaultSQLitePath      = "db.sqlite3"

	defaultCorpusPath = "corpus"

	defaultLogsDir = "logs"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values. Bot defaults come
// from the bot package so the config and engine never disagree.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Storage: StorageConfig{
			Provider:   defaultStorageProvider,
			SQLitePath: defaultSQLitePath,
		},
		Bot: BotConfig{
			Name:                bot.DefaultName,
			DefaultResponse:     bot.DefaultResponse,
			SimilarityThreshold: bot.DefaultSimilarityThreshold,
		},
		Corpus: CorpusConfig{
			Path:  defaultCorpusPath,
			Names: []string{"english.greetings", "english.conversations"},
		},
		Logs: LogsConfig{
			Dir: defaultLogsDir,
		},
	}
}
