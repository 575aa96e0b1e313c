// Package slack exposes the bot over the Slack Events API and the OAuth v2
// install flow, and posts replies through the Web API.
package slack

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/hlog"
	"github.com/sandevgo/askbot/internal/config"
	"github.com/sandevgo/askbot/internal/core"
	"github.com/sandevgo/askbot/pkg/log"
)

const (
	seenEventsSize  = 4096
	shutdownTimeout = 10 * time.Second
)

// Handler processes one normalized inbound message.
type Handler interface {
	Handle(ctx context.Context, msg core.Message) error
}

type Server struct {
	cfg      *config.SlackConfig
	teams    core.TeamStore
	handler  Handler
	gatherer prometheus.Gatherer
	exchange exchangeFunc
	seen     *lru.Cache[string, struct{}]

	http    *http.Server
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewServer(
	ctx context.Context,
	cfg *config.SlackConfig,
	addr string,
	teams core.TeamStore,
	handler Handler,
	gatherer prometheus.Gatherer,
) (*Server, error) {
	seen, err := lru.New[string, struct{}](seenEventsSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create event cache: %w", err)
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	baseCtx, cancel := context.WithCancel(log.WithComponent(ctx, "slack"))
	s := &Server{
		cfg:      cfg,
		teams:    teams,
		handler:  handler,
		gatherer: gatherer,
		seen:     seen,
		baseCtx:  baseCtx,
		cancel:   cancel,
	}
	s.exchange = s.defaultExchange

	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return baseCtx
		},
	}

	if cfg.SigningSecret == "" && cfg.VerificationToken == "" {
		log.FromCtx(ctx).Warn().Msg("no signing secret or verification token configured, webhook requests are not verified")
	}
	return s, nil
}

func (s *Server) Name() string {
	return "slack"
}

// Handler returns the routed HTTP handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /install", s.handleInstall)
	mux.HandleFunc("GET /install/auth", s.handleInstallAuth)
	mux.HandleFunc("POST /api/messages", s.handleEvents)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	logger := log.FromCtx(s.baseCtx)
	access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})

	return hlog.NewHandler(*logger)(
		hlog.RequestIDHandler("req_id", "X-Request-Id")(
			access(mux),
		),
	)
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.http.Addr).Msg("starting slack http server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight message handlers and
// then cancels their context.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	defer s.cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("in-flight handlers did not finish: %w", ctx.Err())
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "This app is running %s %s.", core.AskName, core.AskVersion)
}
