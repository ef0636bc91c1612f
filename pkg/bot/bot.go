// Package bot implements the reply engine behind the chat session. A Bot
// matches utterances against everything it has been trained on and, unless
// read-only, learns each utterance as a reply to whatever it said last.
package bot

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parleyhq/parley/pkg/conversation"
	"github.com/parleyhq/parley/pkg/storage"
)

// Defaults applied by New when the corresponding option is zero.
const (
	DefaultName                = "TerminalBot"
	DefaultResponse            = "I’m not fully sure about that. Could you rephrase?"
	DefaultSimilarityThreshold = 0.65
)

// Options configures a Bot.
type Options struct {
	// Name is the persona the bot answers as.
	Name string

	// DefaultResponse is returned when no match clears the threshold.
	DefaultResponse string

	// SimilarityThreshold is the minimum similarity for an utterance to
	// match a known prompt.
	SimilarityThreshold float64

	// ReadOnly disables learning when true.
	ReadOnly bool
}

// Bot answers utterances from a statement store. A Bot serves one session
// at a time; its learning state tracks that session's exchanges.
type Bot struct {
	name     string
	store    storage.Driver
	matcher  *BestMatch
	logger   *zap.Logger
	readOnly bool

	// session is the conversation tag for statements learned this session.
	session string

	// lastReply is what the bot said last, the prompt the next utterance
	// is learned against.
	lastReply string
}

// New creates a Bot reading and learning from store. Zero-valued options
// fall back to the package defaults.
func New(store storage.Driver, logger *zap.Logger, opts Options) *Bot {
	if opts.Name == "" {
		opts.Name = DefaultName
	}
	if opts.DefaultResponse == "" {
		opts.DefaultResponse = DefaultResponse
	}
	if opts.SimilarityThreshold == 0 {
		opts.SimilarityThreshold = DefaultSimilarityThreshold
	}

	return &Bot{
		name:     opts.Name,
		store:    store,
		matcher:  NewBestMatch(store, logger, opts.SimilarityThreshold, opts.DefaultResponse),
		logger:   logger,
		readOnly: opts.ReadOnly,
		session:  uuid.New().String(),
	}
}

// Name returns the bot's persona.
func (b *Bot) Name() string {
	return b.name
}

// Session returns the conversation tag statements learned this session
// carry.
func (b *Bot) Session() string {
	return b.session
}

// Respond selects a reply for the utterance and, unless the bot is
// read-only, learns the utterance as a reply to the bot's previous answer.
func (b *Bot) Respond(ctx context.Context, utterance string) (string, error) {
	input := conversation.New(utterance, b.lastReply)
	input.Conversation = b.session

	reply, confidence, err := b.matcher.Process(ctx, input)
	if err != nil {
		return "", err
	}

	if !b.readOnly {
		if _, err := b.store.Put(ctx, input); err != nil {
			return "", err
		}
	}

	b.logger.Info("responded",
		zap.String("utterance", utterance),
		zap.Float64("confidence", confidence),
	)

	b.lastReply = reply

	return reply, nil
}
