package dotdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	sessionFile = "session.json"
	historyFile = "history"
)

// SessionRecord represents the persisted summary of the most recent chat
// session. It is written when a session ends and surfaced by the status
// command.
type SessionRecord struct {
	// Session is the conversation tag the bot assigned to the session.
	Session string `json:"session"`

	// StartedAt and EndedAt bound the session wall-clock time.
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`

	// Turns is the number of completed user/bot exchanges.
	Turns int `json:"turns"`
}

// LoadSessionRecord loads the session record from a target .parley/session.json.
// Returns nil, nil if no record exists (no session has completed yet).
// If overrideDir is non-empty, it is used instead of the default ~/.parley/ location.
func (m *Manager) LoadSessionRecord(overrideDir string) (*SessionRecord, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, sessionFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session record: %w", err)
	}

	record := &SessionRecord{}
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parsing session record: %w", err)
	}

	return record, nil
}

// SaveSession persists the session record to a target .parley/session.json.
func (m *Manager) SaveSession(record *SessionRecord, overrideDir string) error {
	if record == nil {
		return errors.New("cannot save nil session record")
	}

	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session record: %w", err)
	}

	path := filepath.Join(dir, sessionFile)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing session record: %w", err)
	}

	return nil
}

// ClearSession removes the session record file.
// If overrideDir is non-empty, it is used instead of the default ~/.parley/ location.
// Returns nil if the file doesn't exist (already cleared).
func (m *Manager) ClearSession(overrideDir string) error {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, sessionFile)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("removing session record: %w", err)
	}

	return nil
}
