package main

import (
	"path/filepath"

	"github.com/sandevgo/askbot/internal/config"
	"github.com/sandevgo/askbot/internal/service/installer"
	"github.com/sandevgo/askbot/pkg/log"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:           "install",
	Short:         "Create the askbot runtime directory and .env interactively",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)

		runtimePath := config.GetRuntimePath()
		envPath := filepath.Join(runtimePath, ".env")

		if _, err := installer.RunWizard(envPath); err != nil {
			return err
		}

		logger.Info().Msgf("initialized runtime directory at: %s", runtimePath)
		logger.Info().Msg("Installation complete! You can now run 'ask start'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
