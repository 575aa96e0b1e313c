package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/askbot/pkg/log"
)

type CMSConfig struct {
	URI   string `env:"CMS_URI"`
	Token string `env:"CMS_TOKEN"`
}

func NewCMSConfig(ctx context.Context) *CMSConfig {
	c := &CMSConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse CMS config")
	}
	return c
}

func (c CMSConfig) IsEnabled() bool {
	return c.URI != ""
}
