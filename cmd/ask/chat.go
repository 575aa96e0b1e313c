package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/askbot/internal/config"
	"github.com/sandevgo/askbot/internal/service/bot"
	"github.com/sandevgo/askbot/internal/transport/cli"
	"github.com/sandevgo/askbot/pkg/log"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to askbot in the terminal without Slack",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			logger.Fatal().Err(err).Msg("failed to init env")
		}

		cfgs := configs{
			app:    config.NewAppConfig(ctx),
			search: config.NewSearchConfig(ctx),
			cms:    config.NewCMSConfig(ctx),
		}

		console, err := cli.NewReadLine(cfgs.app.GetRuntimePath())
		if err != nil {
			return err
		}
		defer console.Shutdown(ctx)

		b, err := newBot(ctx, cfgs, console, bot.NewMetrics(nil))
		if err != nil {
			return err
		}
		console.Attach(b)

		return console.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
