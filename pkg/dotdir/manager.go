// Package dotdir manages the .parley/ and ~/.parley directories.
//
// The dot directory holds per-user state that outlives a single chat session:
// the TOML configuration, the prompt input history, and a JSON record of the
// most recent session.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// dirName is the name of the parley directory.
	dirName = ".parley"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the target absolute path to a .parley/ directory.
// Order of precedence is as follows:
//  1. Provided override
//  2. Local ./.parley/ dir
//  3. Home ~/.parley/ dir
//  4. If none found, attempt to create ~/.parley/ dir
func (m *Manager) Target(overrideDir string) (string, error) {
	var dir string

	switch {
	case overrideDir != "":
		dir = overrideDir

	case m.localDirExists():
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		dir = filepath.Join(cwd, dirName)

	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating parley directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// HistoryPath returns the path to the prompt input history file inside the
// target .parley/ directory. The file itself may not exist yet.
func (m *Manager) HistoryPath(overrideDir string) (string, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, historyFile), nil
}

// localDirExists checks whether a .parley/ directory exists in the current
// working directory.
func (m *Manager) localDirExists() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(cwd, dirName))
	return err == nil && info.IsDir()
}
