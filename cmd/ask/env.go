package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/askbot/internal/config"
	pkgenv "github.com/sandevgo/askbot/pkg/env"
	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print a .env template with every setting and its default",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := envTemplate()
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
}

func envTemplate() (string, error) {
	sections := []struct {
		title string
		cfg   any
	}{
		{"App", &config.AppConfig{}},
		{"Slack", &config.SlackConfig{}},
		{"Search", &config.SearchConfig{}},
		{"CMS", &config.CMSConfig{}},
	}

	var out string
	for _, s := range sections {
		// Parsing against an empty environment fills in defaults only. Missing
		// required values are expected here and left blank in the template.
		_ = env.ParseWithOptions(s.cfg, env.Options{Environment: map[string]string{}})

		body, err := pkgenv.MarshalEnv(s.cfg, true)
		if err != nil {
			return "", fmt.Errorf("failed to render %s config: %w", s.title, err)
		}
		out += "# " + s.title + "\n" + body + "\n"
	}
	return out, nil
}
