package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sandevgo/askbot/internal/core"
	"github.com/sandevgo/askbot/pkg/log"
	"github.com/slack-go/slack"
)

const authorizeURL = "https://slack.com/oauth/v2/authorize"

type exchangeFunc func(ctx context.Context, code string) (*slack.OAuthV2Response, error)

func (s *Server) defaultExchange(ctx context.Context, code string) (*slack.OAuthV2Response, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	return slack.GetOAuthV2ResponseContext(ctx, client, s.cfg.ClientID, s.cfg.ClientSecret, code, s.cfg.RedirectURI)
}

// InstallURL is the Slack authorize link carrying the client id and scopes.
func (s *Server) InstallURL() string {
	params := url.Values{}
	params.Set("client_id", s.cfg.ClientID)
	params.Set("scope", strings.Join(s.cfg.Scopes, ","))
	if s.cfg.RedirectURI != "" {
		params.Set("redirect_uri", s.cfg.RedirectURI)
	}
	return authorizeURL + "?" + params.Encode()
}

func (s *Server) handleInstall(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.IsOAuthEnabled() {
		http.Error(w, "oauth install is not configured", http.StatusNotFound)
		return
	}
	http.Redirect(w, r, s.InstallURL(), http.StatusFound)
}

func (s *Server) handleInstallAuth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromCtx(ctx)

	team, err := s.install(ctx, r.URL.Query().Get("code"))
	if err != nil {
		logger.Error().Err(err).Msg("oauth install failed")
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	logger.Info().Str("team", team.ID).Str("name", team.Name).Msg("bot installed")
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode("Success! Bot installed.")
}

func (s *Server) install(ctx context.Context, code string) (core.Team, error) {
	if !s.cfg.IsOAuthEnabled() {
		return core.Team{}, fmt.Errorf("%w: oauth is not configured", core.ErrOAuthExchangeFailed)
	}
	if code == "" {
		return core.Team{}, fmt.Errorf("%w: missing code", core.ErrOAuthExchangeFailed)
	}

	resp, err := s.exchange(ctx, code)
	if err != nil {
		return core.Team{}, fmt.Errorf("%w: %w", core.ErrOAuthExchangeFailed, err)
	}
	if resp.Team.ID == "" || resp.AccessToken == "" {
		return core.Team{}, fmt.Errorf("%w: incomplete response", core.ErrOAuthExchangeFailed)
	}

	team := core.Team{
		ID:          resp.Team.ID,
		Name:        resp.Team.Name,
		BotToken:    resp.AccessToken,
		BotUserID:   resp.BotUserID,
		InstalledAt: time.Now().UTC(),
	}
	if err := s.teams.SaveTeam(ctx, team); err != nil {
		return core.Team{}, fmt.Errorf("failed to save team: %w", err)
	}
	return team, nil
}
