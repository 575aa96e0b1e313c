package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/sandevgo/askbot/internal/core"
	"github.com/sandevgo/askbot/pkg/log"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

const maxEventBody = 1 << 20

var mentionPattern = regexp.MustCompile(`<@[A-Z0-9]+(?:\|[^>]*)?>`)

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	logger := log.FromCtx(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	evt, err := s.parseEvent(r.Header, body)
	if err != nil {
		logger.Warn().Err(err).Msg("rejected webhook request")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	switch evt.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			http.Error(w, "failed to parse challenge", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, challenge.Challenge)

	case slackevents.CallbackEvent:
		w.WriteHeader(http.StatusOK)
		if msg, ok := s.toMessage(evt); ok {
			s.dispatch(msg)
		}

	default:
		w.WriteHeader(http.StatusOK)
	}
}

// parseEvent verifies the request with the signing secret when configured,
// otherwise with the legacy verification token.
func (s *Server) parseEvent(header http.Header, body []byte) (slackevents.EventsAPIEvent, error) {
	if s.cfg.SigningSecret != "" {
		sv, err := slack.NewSecretsVerifier(header, s.cfg.SigningSecret)
		if err != nil {
			return slackevents.EventsAPIEvent{}, fmt.Errorf("failed to create verifier: %w", err)
		}
		if _, err := sv.Write(body); err != nil {
			return slackevents.EventsAPIEvent{}, fmt.Errorf("failed to write body to verifier: %w", err)
		}
		if err := sv.Ensure(); err != nil {
			return slackevents.EventsAPIEvent{}, fmt.Errorf("invalid signature: %w", err)
		}
		return slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	}

	if s.cfg.VerificationToken != "" {
		return slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionVerifyToken(
			&slackevents.TokenComparator{VerificationToken: s.cfg.VerificationToken},
		))
	}

	return slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
}

// toMessage normalizes user-authored messages and mentions. Edits, joins and
// other subtyped events, bot posts and duplicate deliveries are dropped.
func (s *Server) toMessage(evt slackevents.EventsAPIEvent) (core.Message, bool) {
	var msg core.Message

	switch ev := evt.InnerEvent.Data.(type) {
	case *slackevents.MessageEvent:
		if ev.SubType != "" || ev.BotID != "" {
			return msg, false
		}
		msg = core.Message{
			ChannelID: ev.Channel,
			ThreadTS:  ev.ThreadTimeStamp,
			TS:        ev.TimeStamp,
			UserID:    ev.User,
			Text:      ev.Text,
		}
	case *slackevents.AppMentionEvent:
		if ev.BotID != "" {
			return msg, false
		}
		msg = core.Message{
			ChannelID: ev.Channel,
			ThreadTS:  ev.ThreadTimeStamp,
			TS:        ev.TimeStamp,
			UserID:    ev.User,
			Text:      ev.Text,
		}
	default:
		return msg, false
	}

	msg.TeamID = evt.TeamID
	msg.Text = strings.TrimSpace(mentionPattern.ReplaceAllString(msg.Text, ""))

	// A mention in a channel the bot listens to arrives as both message and app_mention.
	if found, _ := s.seen.ContainsOrAdd(msg.ChannelID+"/"+msg.TS, struct{}{}); found {
		return msg, false
	}
	return msg, true
}

func (s *Server) dispatch(msg core.Message) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		logger := log.FromCtx(s.baseCtx).With().
			Str("team", msg.TeamID).
			Str("channel", msg.ChannelID).
			Str("ts", msg.TS).
			Logger()
		ctx := logger.WithContext(s.baseCtx)

		if s.isOwnMessage(ctx, msg) {
			return
		}

		if err := s.handler.Handle(ctx, msg); err != nil {
			logger.Error().Err(err).Msg("failed to handle message")
		}
	}()
}

func (s *Server) isOwnMessage(ctx context.Context, msg core.Message) bool {
	team, err := s.teams.GetTeam(ctx, msg.TeamID)
	if err != nil {
		if !errors.Is(err, core.ErrTeamNotFound) {
			log.FromCtx(ctx).Warn().Err(err).Msg("failed to load team")
		}
		return false
	}
	return team.BotUserID != "" && team.BotUserID == msg.UserID
}
