package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sandevgo/askbot/internal/config"
	"github.com/sandevgo/askbot/internal/core"
	"github.com/sandevgo/askbot/internal/providers/cms"
	"github.com/sandevgo/askbot/internal/providers/nlp"
	"github.com/sandevgo/askbot/internal/providers/search"
	"github.com/sandevgo/askbot/internal/service/bot"
	"github.com/sandevgo/askbot/internal/service/composer"
	"github.com/sandevgo/askbot/internal/service/history"
	"github.com/sandevgo/askbot/internal/service/pronoun"
	"github.com/sandevgo/askbot/internal/storage/memory"
	"github.com/sandevgo/askbot/internal/storage/sqlite"
	"github.com/sandevgo/askbot/internal/transport/slack"
	"github.com/sandevgo/askbot/pkg/log"
	"github.com/sandevgo/askbot/pkg/retry"
	"github.com/sandevgo/askbot/pkg/srv"
)

type configs struct {
	app    *config.AppConfig
	slack  *config.SlackConfig
	search *config.SearchConfig
	cms    *config.CMSConfig
}

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)

	// init env
	err := initEnv(ctx, config.GetRuntimePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	cfgs := configs{
		app:    config.NewAppConfig(ctx),
		slack:  config.NewSlackConfig(ctx),
		search: config.NewSearchConfig(ctx),
		cms:    config.NewCMSConfig(ctx),
	}

	// 2. Team credentials
	teams, services, err := initStorage(ctx, cfgs.app)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	if err := seedTeams(ctx, teams, cfgs.slack); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed teams")
	}
	if cfgs.slack.BotToken != "" {
		initIdentity(ctx, teams, cfgs.slack)
	}

	// 3. Bot and transport
	server, err := newServer(ctx, cfgs, teams, prometheus.NewRegistry())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize slack server")
	}
	services = append(services, server)

	return services
}

func newServer(ctx context.Context, cfgs configs, teams core.TeamStore, registry *prometheus.Registry) (*slack.Server, error) {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	replier := slack.NewReplier(teams, cfgs.slack.BotToken, cfgs.slack.APIURL)
	b, err := newBot(ctx, cfgs, replier, bot.NewMetrics(registry))
	if err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Info().Bool("oauth", cfgs.slack.IsOAuthEnabled()).Msg("slack transport configured")
	return slack.NewServer(ctx, cfgs.slack, cfgs.app.GetListenAddr(), teams, b, registry)
}

func newBot(ctx context.Context, cfgs configs, replier core.Replier, metrics *bot.Metrics) (*bot.Bot, error) {
	h, err := history.New(cfgs.app.HistorySize, cfgs.app.HistoryMaxConversations)
	if err != nil {
		return nil, err
	}

	tagger, err := nlp.NewProseTagger()
	if err != nil {
		return nil, err
	}

	var claimer core.Claimer
	if cfgs.cms.IsEnabled() {
		claimer = cms.New(cfgs.cms.URI, cfgs.cms.Token)
	}

	log.FromCtx(ctx).Info().
		Str("history_scope", cfgs.app.HistoryScope).
		Int("history_size", cfgs.app.HistorySize).
		Bool("cms", claimer != nil).
		Msg("bot configured")

	return bot.New(bot.Deps{
		History:  h,
		KeyFunc:  history.NewKeyFunc(cfgs.app.HistoryScope),
		Composer: composer.New(h, pronoun.NewDetector(tagger)),
		Searcher: search.NewGoogle(cfgs.search),
		Replier:  replier,
		Claimer:  claimer,
		Metrics:  metrics,
	}), nil
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (core.TeamStore, []srv.Service, error) {
	if !cfg.IsSQLiteSelected() {
		return memory.NewTeams(), nil, nil
	}

	db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
	if err != nil {
		return nil, nil, err
	}
	return sqlite.NewTeams(db), []srv.Service{srv.NewCleanup("sqlite", db.Close)}, nil
}

func seedTeams(ctx context.Context, teams core.TeamStore, cfg *config.SlackConfig) error {
	seeds, err := cfg.SeedTeams()
	if err != nil {
		return err
	}
	for _, team := range seeds {
		if err := teams.SaveTeam(ctx, team); err != nil {
			return err
		}
	}
	if len(seeds) > 0 {
		log.FromCtx(ctx).Info().Int("teams", len(seeds)).Msg("seeded team credentials")
	}
	return nil
}

// initIdentity records the single-team bot so its own messages are ignored.
func initIdentity(ctx context.Context, teams core.TeamStore, cfg *config.SlackConfig) {
	logger := log.FromCtx(ctx)

	team, err := slack.ResolveIdentity(ctx, cfg.BotToken, cfg.APIURL, retry.NewDefaultRetrier())
	if err != nil {
		logger.Warn().Err(err).Msg("could not resolve bot identity, replies use SLACK_BOT_TOKEN for every team")
		return
	}
	if err := teams.SaveTeam(ctx, team); err != nil {
		logger.Warn().Err(err).Msg("failed to save bot identity")
		return
	}
	logger.Info().Str("team", team.ID).Str("bot_user", team.BotUserID).Msg("resolved bot identity")
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
