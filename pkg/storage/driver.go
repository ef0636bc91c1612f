// Package storage
package storage

import (
	"context"

	"github.com/parleyhq/parley/pkg/conversation"
)

// Driver defines the interface for persisting and retrieving statements in a
// storage backend. The Driver is the primary interface for working with
// pkg/conversation - it handles persistence, candidate lookup, and history
// queries per the storage implementor.
type Driver interface {
	// Put stores a statement and returns it with ID and CreatedAt set.
	// Statements are append-only; repeating an utterance inserts a new row.
	Put(ctx context.Context, st *conversation.Statement) (*conversation.Statement, error)

	// Replies returns all statements recorded as replies, that is
	// statements with a non-empty InResponseTo. These are the candidates
	// the bot matches an utterance against.
	Replies(ctx context.Context) ([]*conversation.Statement, error)

	// ResponsesTo returns all replies whose normalized InResponseTo equals
	// the given search text, oldest first.
	ResponsesTo(ctx context.Context, searchText string) ([]*conversation.Statement, error)

	// Count returns the number of stored statements.
	Count(ctx context.Context) (int, error)

	// Recent returns up to limit statements, newest first. A negative
	// limit means no cap.
	Recent(ctx context.Context, limit int) ([]*conversation.Statement, error)

	// Close closes the store and releases any resources.
	Close() error
}
