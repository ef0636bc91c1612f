// Package trainer ingests conversations into a statement store.
package trainer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/parleyhq/parley/pkg/conversation"
	"github.com/parleyhq/parley/pkg/corpus"
	"github.com/parleyhq/parley/pkg/storage"
)

// DefaultPairs is the starter conversation trained when nothing else is
// configured, so a fresh store answers a few prompts.
var DefaultPairs = []string{
	"Hello",
	"Hello. How can I help you today?",
	"What are you?",
	"I am parley, a simple terminal chatbot.",
	"bye",
	"Goodbye. Talk to you later.",
}

// Trainer writes conversations into a store so the bot can reply from them.
// Every utterance after the first in a conversation is recorded as a reply
// to the utterance before it.
type Trainer struct {
	store   storage.Driver
	logger  *slog.Logger
	persona string
}

// New creates a Trainer. persona tags every statement it stores.
func New(store storage.Driver, logger *slog.Logger, persona string) *Trainer {
	return &Trainer{
		store:   store,
		logger:  logger,
		persona: persona,
	}
}

// TrainList ingests a single conversation given as alternating utterances.
// It returns the number of statements stored.
func (t *Trainer) TrainList(ctx context.Context, items []string) (int, error) {
	stored := 0
	previous := ""

	for _, text := range items {
		st := conversation.New(text, previous)
		st.Conversation = conversation.TrainingConversation
		st.Persona = t.persona

		if _, err := t.store.Put(ctx, st); err != nil {
			return stored, fmt.Errorf("storing statement: %w", err)
		}

		stored++
		previous = text
	}

	return stored, nil
}

// TrainCorpus resolves dotted corpus names beneath root and ingests every
// conversation they contain. It returns the number of statements stored,
// which is meaningful even when an error cuts training short.
func (t *Trainer) TrainCorpus(ctx context.Context, root string, names ...string) (int, error) {
	stored := 0

	for _, name := range names {
		corpora, err := corpus.LoadName(root, name)
		if err != nil {
			return stored, err
		}

		for _, c := range corpora {
			for _, conv := range c.Conversations {
				n, err := t.TrainList(ctx, conv)
				stored += n
				if err != nil {
					return stored, err
				}
			}

			t.logger.Info("trained corpus",
				"corpus", c.Name,
				"categories", c.Categories,
				"conversations", len(c.Conversations),
			)
		}
	}

	return stored, nil
}
