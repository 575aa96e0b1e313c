package config

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/askbot/internal/core"
	"github.com/sandevgo/askbot/pkg/log"
)

type SlackConfig struct {
	// Webhook security
	SigningSecret     string `env:"SLACK_SIGNING_SECRET"`
	VerificationToken string `env:"SLACK_VERIFICATION_TOKEN"`

	// Single-team token
	BotToken string `env:"SLACK_BOT_TOKEN"`

	// OAuth for multi-team installs
	ClientID     string   `env:"SLACK_CLIENT_ID"`
	ClientSecret string   `env:"SLACK_CLIENT_SECRET"`
	RedirectURI  string   `env:"SLACK_REDIRECT_URI"`
	Scopes       []string `env:"SLACK_SCOPES" envDefault:"app_mentions:read,channels:history,chat:write,im:history" envSeparator:","`
	APIURL       string   `env:"SLACK_API_URL" envDefault:"https://slack.com/api/"`

	// Serialized team -> token and team -> bot user maps
	Tokens string `env:"TOKENS"`
	Users  string `env:"USERS"`
}

func NewSlackConfig(ctx context.Context) *SlackConfig {
	c := &SlackConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Slack config")
	}
	return c
}

// SeedTeams merges the TOKENS and USERS maps into team records.
func (c SlackConfig) SeedTeams() ([]core.Team, error) {
	tokens := map[string]string{}
	users := map[string]string{}

	if c.Tokens != "" {
		if err := json.Unmarshal([]byte(c.Tokens), &tokens); err != nil {
			return nil, fmt.Errorf("failed to parse TOKENS: %w", err)
		}
	}
	if c.Users != "" {
		if err := json.Unmarshal([]byte(c.Users), &users); err != nil {
			return nil, fmt.Errorf("failed to parse USERS: %w", err)
		}
	}

	ids := make(map[string]struct{}, len(tokens)+len(users))
	for id := range tokens {
		ids[id] = struct{}{}
	}
	for id := range users {
		ids[id] = struct{}{}
	}

	teams := make([]core.Team, 0, len(ids))
	for id := range ids {
		teams = append(teams, core.Team{
			ID:        id,
			BotToken:  tokens[id],
			BotUserID: users[id],
		})
	}
	return teams, nil
}

func (c SlackConfig) IsOAuthEnabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
