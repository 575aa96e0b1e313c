// Package bot wires intent routing, utterance history, query composition and
// search into the handling of a single inbound message.
package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandevgo/askbot/internal/core"
	"github.com/sandevgo/askbot/internal/service/history"
	"github.com/sandevgo/askbot/internal/service/intent"
	"github.com/sandevgo/askbot/pkg/log"
)

const (
	GreetingPrefix = "Oh hai! "
	FallbackText   = "Sorry, I couldn't reach the search service. Please try again later."
)

type composer interface {
	Compose(ctx context.Context, conversation, current string) (core.ComposedQuery, error)
}

type Deps struct {
	History  core.History
	KeyFunc  history.KeyFunc
	Composer composer
	Searcher core.Searcher
	Replier  core.Replier
	// Claimer is optional.
	Claimer core.Claimer
	Metrics *Metrics
}

type Bot struct {
	router    *intent.Router
	history   core.History
	keyFunc   history.KeyFunc
	composer  composer
	searcher  core.Searcher
	replier   core.Replier
	claimer   core.Claimer
	metrics   *Metrics
	formatter responseFormatter
}

func New(deps Deps) *Bot {
	b := &Bot{
		history:  deps.History,
		keyFunc:  deps.KeyFunc,
		composer: deps.Composer,
		searcher: deps.Searcher,
		replier:  deps.Replier,
		claimer:  deps.Claimer,
		metrics:  deps.Metrics,
	}
	if b.keyFunc == nil {
		b.keyFunc = history.NewKeyFunc(history.ScopeChannel)
	}
	if b.metrics == nil {
		b.metrics = NewMetrics(nil)
	}

	b.router = intent.New(
		intent.Route{Name: intent.RouteSearch, Pattern: intent.SearchPattern, Handler: b.search},
		intent.Route{Name: intent.RouteGreeting, Pattern: intent.Phrases(intent.GreetingPhrases...), Handler: b.greet},
		intent.Route{Name: intent.RouteHelp, Pattern: intent.HelpPattern, Handler: b.help},
	)
	return b
}

// Handle records the message, lets the CMS claim it, and otherwise runs the
// first matching route.
func (b *Bot) Handle(ctx context.Context, msg core.Message) error {
	logger := log.FromCtx(ctx)

	match, matched := b.router.Match(msg.Text)
	subject, route := msg.Text, routeNone
	if matched {
		subject, route = match.Subject, match.Route.Name
	}

	conversation := b.keyFunc(msg)
	u := b.history.Record(conversation, subject)
	b.metrics.messages.WithLabelValues(route).Inc()

	logger.Debug().
		Str("conversation", conversation).
		Int64("arrival", u.ArrivalIndex).
		Str("route", route).
		Msg("message recorded")

	if b.claimer != nil {
		reply, claimed, err := b.claimer.Claim(ctx, msg)
		if err != nil {
			logger.Warn().Err(err).Msg("cms trigger check failed")
		}
		if claimed {
			b.metrics.cmsClaims.Inc()
			if reply == "" {
				return nil
			}
			return b.reply(ctx, msg, reply)
		}
	}

	if !matched {
		return nil
	}

	reply, err := match.Route.Handler(ctx, msg, match)
	if err != nil {
		return fmt.Errorf("route %s: %w", route, err)
	}
	if reply == "" {
		return nil
	}
	return b.reply(ctx, msg, reply)
}

func (b *Bot) reply(ctx context.Context, msg core.Message, text string) error {
	if err := b.replier.Reply(ctx, msg, text); err != nil {
		return fmt.Errorf("failed to reply: %w", err)
	}
	return nil
}

func (b *Bot) greet(_ context.Context, msg core.Message, _ *intent.Match) (string, error) {
	return GreetingPrefix + msg.Text, nil
}

func (b *Bot) help(_ context.Context, _ core.Message, _ *intent.Match) (string, error) {
	return b.formatter.Combine(
		b.formatter.Title("askbot "+core.AskVersion),
		b.formatter.Usage("search <question>"),
		b.formatter.Examples([]string{
			"search capital of France",
			"search what about its population",
		}),
		b.formatter.Tip("follow-up questions with a pronoun reuse your previous question"),
	), nil
}

func (b *Bot) search(ctx context.Context, msg core.Message, m *intent.Match) (string, error) {
	logger := log.FromCtx(ctx)

	query, err := b.composer.Compose(ctx, b.keyFunc(msg), m.Subject)
	if errors.Is(err, core.ErrNoQueryAvailable) {
		b.metrics.searches.WithLabelValues(outcomeNoQuery).Inc()
		logger.Debug().Msg("nothing to search for")
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to compose query: %w", err)
	}

	logger.Info().Str("query", query.Text).Bool("used_context", query.UsedContext).Msg("searching")

	result, err := b.searcher.Search(ctx, query.Text)
	if err != nil {
		b.metrics.searches.WithLabelValues(outcomeUnavailable).Inc()
		logger.Warn().Err(err).Str("query", query.Text).Msg("search failed")
		return FallbackText, nil
	}

	b.metrics.searches.WithLabelValues(outcomeOK).Inc()
	return b.formatter.Result(result), nil
}
