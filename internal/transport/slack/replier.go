package slack

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sandevgo/askbot/internal/core"
	"github.com/sandevgo/askbot/pkg/log"
	"github.com/slack-go/slack"
)

const maxSlackMsgLen = 4000

// Replier posts messages with the token of the team the message came from.
type Replier struct {
	teams         core.TeamStore
	fallbackToken string
	apiURL        string
	client        *http.Client
}

func NewReplier(teams core.TeamStore, fallbackToken, apiURL string) *Replier {
	return &Replier{
		teams:         teams,
		fallbackToken: fallbackToken,
		apiURL:        apiURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (r *Replier) Reply(ctx context.Context, msg core.Message, text string) error {
	logger := log.FromCtx(ctx)

	token, err := r.token(ctx, msg.TeamID)
	if err != nil {
		return err
	}

	api := slack.New(token, slack.OptionAPIURL(r.apiURL), slack.OptionHTTPClient(r.client))

	chunks := splitText(strings.TrimSpace(text), maxSlackMsgLen)
	for i, chunk := range chunks {
		opts := []slack.MsgOption{slack.MsgOptionText(chunk, false)}
		if msg.ThreadTS != "" {
			opts = append(opts, slack.MsgOptionTS(msg.ThreadTS))
		}

		if _, _, err := api.PostMessageContext(ctx, msg.ChannelID, opts...); err != nil {
			logger.Error().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("failed to post slack message")
			return fmt.Errorf("failed to post message: %w", err)
		}
	}
	return nil
}

func (r *Replier) token(ctx context.Context, teamID string) (string, error) {
	team, err := r.teams.GetTeam(ctx, teamID)
	if err == nil && team.BotToken != "" {
		return team.BotToken, nil
	}
	if err != nil && !errors.Is(err, core.ErrTeamNotFound) {
		return "", fmt.Errorf("failed to load team: %w", err)
	}
	if r.fallbackToken == "" {
		return "", fmt.Errorf("no bot token for team %s: %w", teamID, core.ErrTeamNotFound)
	}
	return r.fallbackToken, nil
}

// splitText splits text into chunks of at most maxLen bytes, preferring
// newline boundaries and never cutting inside a UTF-8 sequence.
func splitText(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			chunks = append(chunks, text)
			break
		}

		cut := maxLen
		if idx := strings.LastIndex(text[:maxLen], "\n"); idx > maxLen/3 {
			cut = idx
		}
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}

		chunks = append(chunks, text[:cut])
		text = strings.TrimSpace(text[cut:])
	}
	return chunks
}
