package sqlitepath

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

func ResolveSQLitePath(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if envPath := strings.TrimSpace(os.Getenv("PARLEY_SQLITE")); envPath != "" {
		return envPath, nil
	}
	if envPath := strings.TrimSpace(os.Getenv("PARLEY_DB")); envPath != "" {
		return envPath, nil
	}

	for _, candidate := range sqliteCandidates() {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", errors.New("could not find parley SQLite database; pass --sqlite")
}

func sqliteCandidates() []string {
	candidates := []string{
		"db.sqlite3",
		"parley.db",
		filepath.Join(".parley", "db.sqlite3"),
		filepath.Join(".parley", "parley.db"),
	}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append([]string{
			filepath.Join(home, ".parley", "db.sqlite3"),
			filepath.Join(home, ".parley", "parley.db"),
		}, candidates...)
	}

	if xdgHome := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); xdgHome != "" {
		candidates = append([]string{
			filepath.Join(xdgHome, "parley", "db.sqlite3"),
			filepath.Join(xdgHome, "parley", "parley.db"),
		}, candidates...)
	}

	return candidates
}
