package bot

import (
	"context"
	"fmt"

	"github.com/agext/levenshtein"
	"go.uber.org/zap"

	"github.com/parleyhq/parley/pkg/conversation"
	"github.com/parleyhq/parley/pkg/storage"
)

// BestMatch selects the known reply whose recorded prompt is most similar
// to the utterance. Similarity is normalized Levenshtein over the search
// text, so casing and spacing don't count against a match.
type BestMatch struct {
	store           storage.Driver
	logger          *zap.Logger
	selection       *zap.Logger
	threshold       float64
	defaultResponse string
}

// NewBestMatch creates a matcher. A match below threshold falls back to
// defaultResponse.
func NewBestMatch(store storage.Driver, logger *zap.Logger, threshold float64, defaultResponse string) *BestMatch {
	return &BestMatch{
		store:           store,
		logger:          logger,
		selection:       logger.Named("selection"),
		threshold:       threshold,
		defaultResponse: defaultResponse,
	}
}

// Process returns the selected reply text and its confidence. When no
// candidate clears the threshold it returns the default response with
// confidence zero.
func (m *BestMatch) Process(ctx context.Context, input *conversation.Statement) (string, float64, error) {
	candidates, err := m.store.Replies(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("loading reply candidates: %w", err)
	}

	if len(candidates) == 0 {
		m.logger.Info("no known replies, using default response")
		return m.defaultResponse, 0, nil
	}

	var best *conversation.Statement
	var bestScore float64
	for _, candidate := range candidates {
		score := levenshtein.Similarity(input.SearchText, candidate.SearchInResponseTo, nil)
		if score > bestScore {
			bestScore = score
			best = candidate
		}
	}

	if best == nil || bestScore < m.threshold {
		m.logger.Info("no candidate cleared the threshold",
			zap.Float64("best", bestScore),
			zap.Float64("threshold", m.threshold),
		)
		return m.defaultResponse, 0, nil
	}

	// Every reply recorded for the matched prompt, first one wins
	responses, err := m.store.ResponsesTo(ctx, best.SearchInResponseTo)
	if err != nil {
		return "", 0, fmt.Errorf("loading responses: %w", err)
	}
	if len(responses) == 0 {
		responses = []*conversation.Statement{best}
	}

	selected := responses[0]
	m.selection.Info("selected response",
		zap.String("prompt", best.InResponseTo),
		zap.String("response", selected.Text),
		zap.Float64("confidence", bestScore),
		zap.Int("responses", len(responses)),
	)

	return selected.Text, bestScore, nil
}
