// Package composer turns the current question into the query that is sent to search.
package composer

import (
	"context"
	"strings"

	"github.com/sandevgo/askbot/internal/core"
	"github.com/sandevgo/askbot/pkg/log"
)

const contextSeparator = ", "

type detector interface {
	IsAnaphoric(ctx context.Context, question string) bool
}

type Composer struct {
	history  core.History
	detector detector
}

func New(history core.History, detector detector) *Composer {
	return &Composer{
		history:  history,
		detector: detector,
	}
}

// Compose builds the query for current. The current message is expected to be
// recorded in the conversation already, so the lookup skips exactly one entry.
func (c *Composer) Compose(ctx context.Context, conversation, current string) (core.ComposedQuery, error) {
	logger := log.FromCtx(ctx)
	current = strings.TrimSpace(current)

	if current == "" {
		prior, ok := c.history.MostRecentPrior(conversation, 1)
		if !ok {
			return core.ComposedQuery{}, core.ErrNoQueryAvailable
		}
		logger.Debug().Str("prior", prior.Text).Msg("empty question, reusing prior utterance")
		return core.ComposedQuery{Text: prior.Text, UsedContext: true}, nil
	}

	if !c.detector.IsAnaphoric(ctx, current) {
		return core.ComposedQuery{Text: current}, nil
	}

	prior, ok := c.history.MostRecentPrior(conversation, 1)
	if !ok {
		return core.ComposedQuery{Text: current}, nil
	}

	logger.Debug().Str("prior", prior.Text).Str("current", current).Msg("merging follow-up with prior utterance")
	return core.ComposedQuery{
		Text:        prior.Text + contextSeparator + current,
		UsedContext: true,
	}, nil
}
