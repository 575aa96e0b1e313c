package slack

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sandevgo/askbot/internal/config"
	"github.com/sandevgo/askbot/internal/core"
	"github.com/sandevgo/askbot/internal/storage/memory"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "8f742231b10e8888abcd99yyyzzz85a5"

type recordingHandler struct {
	mu   sync.Mutex
	msgs []core.Message
	err  error
}

func (h *recordingHandler) Handle(_ context.Context, msg core.Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = append(h.msgs, msg)
	return h.err
}

func (h *recordingHandler) messages() []core.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]core.Message(nil), h.msgs...)
}

type fixture struct {
	server  *Server
	handler *recordingHandler
	teams   *memory.Teams
	http    http.Handler
}

func newFixture(t *testing.T, cfg *config.SlackConfig) *fixture {
	t.Helper()
	f := &fixture{
		handler: &recordingHandler{},
		teams:   memory.NewTeams(),
	}
	s, err := NewServer(context.Background(), cfg, "127.0.0.1:0", f.teams, f.handler, prometheus.NewRegistry())
	require.NoError(t, err)
	f.server = s
	f.http = s.Handler()
	return f
}

// drain waits for in-flight handlers.
func (f *fixture) drain(t *testing.T) {
	t.Helper()
	require.NoError(t, f.server.Shutdown(context.Background()))
}

func signedRequest(t *testing.T, body, secret string) *http.Request {
	t.Helper()
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte("v0:" + ts + ":" + body))

	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Slack-Request-Timestamp", ts)
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(mac.Sum(nil)))
	return req
}

func callback(eventJSON string) string {
	return `{"token":"legacy","team_id":"T1","api_app_id":"A1","type":"event_callback","event_id":"Ev1","event_time":1700000000,"event":` + eventJSON + `}`
}

func TestServer_Index(t *testing.T) {
	f := newFixture(t, &config.SlackConfig{SigningSecret: testSecret})

	rec := httptest.NewRecorder()
	f.http.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "This app is running askbot "+core.AskVersion+".", rec.Body.String())
}

func TestServer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "askbot_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	s, err := NewServer(context.Background(), &config.SlackConfig{}, ":0", memory.NewTeams(), &recordingHandler{}, reg)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "askbot_test_total 1")
}

func TestServer_URLVerification(t *testing.T) {
	f := newFixture(t, &config.SlackConfig{SigningSecret: testSecret})

	rec := httptest.NewRecorder()
	body := `{"token":"legacy","challenge":"3eZbrw1aBm2rZgRNFdxV2595E9CY3gmdALWMmHkvFXO7tYXAYM8P","type":"url_verification"}`
	f.http.ServeHTTP(rec, signedRequest(t, body, testSecret))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3eZbrw1aBm2rZgRNFdxV2595E9CY3gmdALWMmHkvFXO7tYXAYM8P", rec.Body.String())
}

func TestServer_RejectsBadSignature(t *testing.T) {
	f := newFixture(t, &config.SlackConfig{SigningSecret: testSecret})

	rec := httptest.NewRecorder()
	body := callback(`{"type":"message","channel":"C1","user":"U1","text":"hi","ts":"1.1"}`)
	f.http.ServeHTTP(rec, signedRequest(t, body, "wrong-secret"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	f.drain(t)
	assert.Empty(t, f.handler.messages())
}

func TestServer_VerificationToken(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		wantCode int
		wantMsgs int
	}{
		{"matching token", "legacy", http.StatusOK, 1},
		{"wrong token", "other", http.StatusUnauthorized, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, &config.SlackConfig{VerificationToken: tt.token})

			body := callback(`{"type":"message","channel":"C1","user":"U1","text":"hi","ts":"1.1"}`)
			rec := httptest.NewRecorder()
			f.http.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(body)))

			assert.Equal(t, tt.wantCode, rec.Code)
			f.drain(t)
			assert.Len(t, f.handler.messages(), tt.wantMsgs)
		})
	}
}

func TestServer_MessageEvents(t *testing.T) {
	tests := []struct {
		name   string
		events []string
		want   []core.Message
	}{
		{
			name:   "plain message",
			events: []string{`{"type":"message","channel":"C1","user":"U1","text":"search cats","ts":"1.1"}`},
			want:   []core.Message{{TeamID: "T1", ChannelID: "C1", TS: "1.1", UserID: "U1", Text: "search cats"}},
		},
		{
			name:   "mention stripped and thread kept",
			events: []string{`{"type":"app_mention","channel":"C1","user":"U1","text":"<@UBOT> search cats","ts":"1.2","thread_ts":"1.0"}`},
			want:   []core.Message{{TeamID: "T1", ChannelID: "C1", ThreadTS: "1.0", TS: "1.2", UserID: "U1", Text: "search cats"}},
		},
		{
			name: "message and mention for the same post",
			events: []string{
				`{"type":"message","channel":"C1","user":"U1","text":"<@UBOT> hi","ts":"1.3"}`,
				`{"type":"app_mention","channel":"C1","user":"U1","text":"<@UBOT> hi","ts":"1.3"}`,
			},
			want: []core.Message{{TeamID: "T1", ChannelID: "C1", TS: "1.3", UserID: "U1", Text: "hi"}},
		},
		{
			name:   "edited message ignored",
			events: []string{`{"type":"message","subtype":"message_changed","channel":"C1","ts":"1.4"}`},
		},
		{
			name:   "bot message ignored",
			events: []string{`{"type":"message","channel":"C1","bot_id":"B1","text":"hi","ts":"1.5"}`},
		},
		{
			name:   "own message ignored",
			events: []string{`{"type":"message","channel":"C1","user":"UBOT","text":"Oh hai! hi","ts":"1.6"}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, &config.SlackConfig{SigningSecret: testSecret})
			require.NoError(t, f.teams.SaveTeam(context.Background(), core.Team{ID: "T1", BotToken: "xoxb", BotUserID: "UBOT"}))

			for _, ev := range tt.events {
				rec := httptest.NewRecorder()
				f.http.ServeHTTP(rec, signedRequest(t, callback(ev), testSecret))
				require.Equal(t, http.StatusOK, rec.Code)
			}
			f.drain(t)

			if tt.want == nil {
				assert.Empty(t, f.handler.messages())
				return
			}
			assert.Equal(t, tt.want, f.handler.messages())
		})
	}
}

func TestServer_HandlerErrorDoesNotFailRequest(t *testing.T) {
	f := newFixture(t, &config.SlackConfig{SigningSecret: testSecret})
	f.handler.err = errors.New("boom")

	rec := httptest.NewRecorder()
	f.http.ServeHTTP(rec, signedRequest(t, callback(`{"type":"message","channel":"C1","user":"U1","text":"hi","ts":"2.1"}`), testSecret))

	assert.Equal(t, http.StatusOK, rec.Code)
	f.drain(t)
	assert.Len(t, f.handler.messages(), 1)
}

func oauthConfig() *config.SlackConfig {
	return &config.SlackConfig{
		SigningSecret: testSecret,
		ClientID:      "123.456",
		ClientSecret:  "shh",
		RedirectURI:   "https://bot.example.org/install/auth",
		Scopes:        []string{"chat:write", "app_mentions:read"},
	}
}

func TestServer_Install(t *testing.T) {
	f := newFixture(t, oauthConfig())

	rec := httptest.NewRecorder()
	f.http.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/install", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	loc := rec.Header().Get("Location")
	assert.True(t, strings.HasPrefix(loc, authorizeURL+"?"), loc)
	assert.Contains(t, loc, "client_id=123.456")
	assert.Contains(t, loc, "scope=chat%3Awrite%2Capp_mentions%3Aread")
	assert.Contains(t, loc, "redirect_uri=https%3A%2F%2Fbot.example.org%2Finstall%2Fauth")
}

func TestServer_InstallDisabled(t *testing.T) {
	f := newFixture(t, &config.SlackConfig{SigningSecret: testSecret})

	rec := httptest.NewRecorder()
	f.http.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/install", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_InstallAuth(t *testing.T) {
	f := newFixture(t, oauthConfig())
	f.server.exchange = func(_ context.Context, code string) (*slack.OAuthV2Response, error) {
		assert.Equal(t, "good-code", code)
		resp := &slack.OAuthV2Response{AccessToken: "xoxb-new", BotUserID: "UBOT"}
		resp.Team.ID = "T9"
		resp.Team.Name = "Acme"
		return resp, nil
	}

	rec := httptest.NewRecorder()
	f.http.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/install/auth?code=good-code", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"Success! Bot installed."`, rec.Body.String())

	team, err := f.teams.GetTeam(context.Background(), "T9")
	require.NoError(t, err)
	assert.Equal(t, "xoxb-new", team.BotToken)
	assert.Equal(t, "UBOT", team.BotUserID)
	assert.Equal(t, "Acme", team.Name)
}

func TestServer_InstallAuthFailure(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		exchange exchangeFunc
		wantBody string
	}{
		{
			name: "exchange error",
			url:  "/install/auth?code=bad",
			exchange: func(context.Context, string) (*slack.OAuthV2Response, error) {
				return nil, errors.New("invalid_code")
			},
			wantBody: "invalid_code",
		},
		{
			name:     "missing code",
			url:      "/install/auth",
			wantBody: "missing code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, oauthConfig())
			if tt.exchange != nil {
				f.server.exchange = tt.exchange
			}

			rec := httptest.NewRecorder()
			f.http.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}
