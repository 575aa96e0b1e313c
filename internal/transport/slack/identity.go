package slack

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sandevgo/askbot/internal/core"
	"github.com/sandevgo/askbot/pkg/log"
	"github.com/sandevgo/askbot/pkg/retry"
	"github.com/slack-go/slack"
)

// ResolveIdentity calls auth.test for a single-team bot token. Slack API
// errors such as invalid_auth are not retried.
func ResolveIdentity(ctx context.Context, token, apiURL string, retrier *retry.Retrier) (core.Team, error) {
	logger := log.FromCtx(ctx)
	api := slack.New(token,
		slack.OptionAPIURL(apiURL),
		slack.OptionHTTPClient(&http.Client{Timeout: 10 * time.Second}),
	)

	var resp *slack.AuthTestResponse
	err := retrier.Do(ctx, func(ctx context.Context) error {
		var err error
		resp, err = api.AuthTestContext(ctx)
		if err == nil {
			return nil
		}

		var apiErr slack.SlackErrorResponse
		if errors.As(err, &apiErr) {
			return retry.Permanent(err)
		}
		logger.Debug().Err(err).Msg("auth.test failed, retrying")
		return err
	})
	if err != nil {
		return core.Team{}, fmt.Errorf("failed to resolve bot identity: %w", err)
	}

	return core.Team{
		ID:        resp.TeamID,
		Name:      resp.Team,
		BotToken:  token,
		BotUserID: resp.UserID,
	}, nil
}
