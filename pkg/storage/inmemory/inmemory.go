package inmemory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/parleyhq/parley/pkg/conversation"
	"github.com/parleyhq/parley/pkg/storage"
)

// Driver implements storage.Driver using an in-memory slice. It backs tests
// and throwaway sessions where nothing should touch disk.
type Driver struct {
	// mu is a read write sync mutex guarding the statement log
	mu sync.RWMutex

	// statements is the append-only log of stored statements, oldest first
	statements []*conversation.Statement

	// nextID mimics the autoincrement id a database would assign
	nextID int64
}

// NewDriver creates a new in-memory statement store.
func NewDriver() *Driver {
	return &Driver{nextID: 1}
}

// Put stores a statement, assigning it an id and a timestamp.
func (s *Driver) Put(_ context.Context, st *conversation.Statement) (*conversation.Statement, error) {
	if st == nil {
		return nil, errors.New("cannot store nil statement")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st.ID = s.nextID
	st.CreatedAt = time.Now().UTC()
	s.nextID++

	// Keep a copy so later caller mutations don't reach the store
	stored := *st
	s.statements = append(s.statements, &stored)

	return st, nil
}

// Replies returns all statements recorded as replies, oldest first.
func (s *Driver) Replies(_ context.Context) ([]*conversation.Statement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var replies []*conversation.Statement
	for _, st := range s.statements {
		if st.InResponseTo != "" {
			replies = append(replies, st)
		}
	}

	return replies, nil
}

// ResponsesTo returns all replies to the given normalized prompt, oldest first.
func (s *Driver) ResponsesTo(_ context.Context, searchText string) ([]*conversation.Statement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var responses []*conversation.Statement
	for _, st := range s.statements {
		if st.InResponseTo != "" && st.SearchInResponseTo == searchText {
			responses = append(responses, st)
		}
	}

	return responses, nil
}

// Count returns the number of stored statements.
func (s *Driver) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.statements), nil
}

// Recent returns up to limit statements, newest first.
func (s *Driver) Recent(_ context.Context, limit int) ([]*conversation.Statement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit < 0 || limit > len(s.statements) {
		limit = len(s.statements)
	}

	recent := make([]*conversation.Statement, 0, limit)
	for i := len(s.statements) - 1; i >= len(s.statements)-limit; i-- {
		recent = append(recent, s.statements[i])
	}

	return recent, nil
}

// Close is a no-op for the in-memory store.
func (s *Driver) Close() error {
	return nil
}

// Ensure Driver implements storage.Driver
var _ storage.Driver = (*Driver)(nil)
