// Package conversation defines the statement model shared by the bot,
// the trainers, and the storage drivers.
package conversation

import (
	"strings"
	"time"
)

// Statement is a single utterance known to the bot. A statement trained or
// learned as a reply carries the prompt it answers in InResponseTo; prompts
// themselves are stored with an empty InResponseTo.
type Statement struct {
	// ID is the storage-assigned row identifier. Zero until persisted.
	ID int64

	// Text is the verbatim utterance.
	Text string

	// SearchText is the normalized form of Text used for matching.
	SearchText string

	// InResponseTo is the verbatim prompt this statement replies to,
	// empty for statements that open an exchange.
	InResponseTo string

	// SearchInResponseTo is the normalized form of InResponseTo.
	SearchInResponseTo string

	// Conversation tags the session that learned this statement.
	// Trained corpus statements carry the identifier "training".
	Conversation string

	// Persona names the bot that owns this statement.
	Persona string

	// CreatedAt is set by the storage driver on insert.
	CreatedAt time.Time
}

// TrainingConversation tags statements ingested by a trainer rather than
// learned during a chat session.
const TrainingConversation = "training"

// New creates a statement with its search fields populated.
func New(text, inResponseTo string) *Statement {
	return &Statement{
		Text:               text,
		SearchText:         Normalize(text),
		InResponseTo:       inResponseTo,
		SearchInResponseTo: Normalize(inResponseTo),
	}
}

// Normalize lowercases an utterance and collapses interior whitespace so
// that matching is insensitive to casing and spacing.
func Normalize(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}
