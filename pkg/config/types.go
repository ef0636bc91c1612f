package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config represents the persistent parley configuration stored as config.toml
// in the .parley/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version int           `toml:"version"`
	Storage StorageConfig `toml:"storage"`
	Bot     BotConfig     `toml:"bot"`
	Corpus  CorpusConfig  `toml:"corpus"`
	Logs    LogsConfig    `toml:"logs"`
}

// StorageConfig holds statement store settings shared by every command that
// opens the database.
type StorageConfig struct {
	Provider   string `toml:"provider,omitempty"`
	SQLitePath string `toml:"sqlite_path,omitempty"`
}

// BotConfig holds reply engine settings.
type BotConfig struct {
	Name                string  `toml:"name,omitempty"`
	DefaultResponse     string  `toml:"default_response,omitempty"`
	SimilarityThreshold float64 `toml:"similarity_threshold,omitempty"`
	ReadOnly            bool    `toml:"read_only,omitempty"`
}

// CorpusConfig holds training corpus settings. Path is the root directory
// holding corpus YAML files; Names are the dotted corpus names trained at
// chat startup (e.g. "english.greetings").
type CorpusConfig struct {
	Path  string   `toml:"path,omitempty"`
	Names []string `toml:"names,omitempty"`
}

// LogsConfig holds session log settings.
type LogsConfig struct {
	Dir string `toml:"dir,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"storage.provider": {
		get: func(c *Config) string { return c.Storage.Provider },
		set: func(c *Config, v string) error { c.Storage.Provider = v; return nil },
	},
	"storage.sqlite_path": {
		get: func(c *Config) string { return c.Storage.SQLitePath },
		set: func(c *Config, v string) error { c.Storage.SQLitePath = v; return nil },
	},
	"bot.name": {
		get: func(c *Config) string { return c.Bot.Name },
		set: func(c *Config, v string) error { c.Bot.Name = v; return nil },
	},
	"bot.default_response": {
		get: func(c *Config) string { return c.Bot.DefaultResponse },
		set: func(c *Config, v string) error { c.Bot.DefaultResponse = v; return nil },
	},
	"bot.similarity_threshold": {
		get: func(c *Config) string {
			if c.Bot.SimilarityThreshold == 0 {
				return ""
			}
			return strconv.FormatFloat(c.Bot.SimilarityThreshold, 'g', -1, 64)
		},
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for bot.similarity_threshold: %w", err)
			}
			if f < 0 || f > 1 {
				return fmt.Errorf("bot.similarity_threshold must be between 0 and 1, got %v", f)
			}
			c.Bot.SimilarityThreshold = f
			return nil
		},
	},
	"bot.read_only": {
		get: func(c *Config) string { return strconv.FormatBool(c.Bot.ReadOnly) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for bot.read_only: %w", err)
			}
			c.Bot.ReadOnly = b
			return nil
		},
	},
	"corpus.path": {
		get: func(c *Config) string { return c.Corpus.Path },
		set: func(c *Config, v string) error { c.Corpus.Path = v; return nil },
	},
	"corpus.names": {
		get: func(c *Config) string { return strings.Join(c.Corpus.Names, ",") },
		set: func(c *Config, v string) error {
			var names []string
			for _, name := range strings.Split(v, ",") {
				if name = strings.TrimSpace(name); name != "" {
					names = append(names, name)
				}
			}
			c.Corpus.Names = names
			return nil
		},
	},
	"logs.dir": {
		get: func(c *Config) string { return c.Logs.Dir },
		set: func(c *Config, v string) error { c.Logs.Dir = v; return nil },
	},
}
