// Package initcmder provides the init command for initializing a local .parley
// directory in the current working directory.
package initcmder

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/parleyhq/parley/pkg/config"
)

const (
	dirName    = ".parley"
	configFile = "config.toml"
)

const initLongDesc string = `Initialize a new .parley/ directory in the current working directory.

Creates a local .parley/ directory that takes precedence over the default
~/.parley/ directory for configuration, prompt history, and database
discovery.

Writes a config.toml with default values. With --preset, writes one of the
named storage presets instead, or fetches a config from an http(s) URL.

Presets:
  sqlite     persist statements to db.sqlite3 (the default behavior)
  ephemeral  keep statements in memory, nothing survives the session
  readonly   answer from the existing database but never learn

Examples:
  parley init
  parley init --preset ephemeral
  parley init --preset readonly
  parley init --preset https://example.com/parley-config.toml`

const initShortDesc string = "Initialize a local .parley/ directory"

type initCommander struct {
	preset string
}

func NewInitCmd() *cobra.Command {
	cmder := &initCommander{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmder.run()
		},
	}

	cmd.Flags().StringVar(&cmder.preset, "preset", "", "Storage preset name or config URL")

	return cmd
}

func (c *initCommander) run() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	info, err := os.Stat(dir)
	alreadyInitialized := err == nil && info.IsDir()
	if !alreadyInitialized {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating .parley directory: %w", err)
		}
	}

	configPath := filepath.Join(dir, configFile)

	// Without a preset an existing config is left alone; a preset always
	// replaces it.
	if c.preset == "" && alreadyInitialized {
		if _, err := os.Stat(configPath); err == nil {
			fmt.Printf("Already initialized: %s\n", dir)
			return nil
		}
	}

	cfg, err := c.resolveConfig()
	if err != nil {
		return err
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("resolving config target: %w", err)
	}
	if err := cfger.SaveConfig(cfg); err != nil {
		return err
	}

	if alreadyInitialized {
		fmt.Printf("Updated config: %s\n", configPath)
		return nil
	}

	fmt.Printf("Initialized .parley directory: %s\n", dir)
	return nil
}

// resolveConfig picks the config to write: defaults, a named preset, or a
// config fetched from a URL.
func (c *initCommander) resolveConfig() (*config.Config, error) {
	if c.preset == "" {
		return config.NewDefaultConfig(), nil
	}

	if strings.HasPrefix(c.preset, "http://") || strings.HasPrefix(c.preset, "https://") {
		return fetchRemoteConfig(c.preset)
	}

	return config.PresetConfig(c.preset)
}

func fetchRemoteConfig(url string) (*config.Config, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching remote config: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading remote config: %w", err)
	}

	return config.ParseConfigTOML(data)
}
