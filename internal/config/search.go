package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/askbot/pkg/log"
)

type SearchConfig struct {
	Endpoint string        `env:"SEARCH_ENDPOINT" envDefault:"https://www.googleapis.com/customsearch/v1"`
	APIKey   string        `env:"SEARCH_API_KEY,required,notEmpty"`
	EngineID string        `env:"SEARCH_ENGINE_ID,required,notEmpty"`
	Timeout  time.Duration `env:"SEARCH_TIMEOUT" envDefault:"10s"`
}

func NewSearchConfig(ctx context.Context) *SearchConfig {
	c := &SearchConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Search config")
	}
	return c
}

func (c SearchConfig) GetEndpoint() string       { return c.Endpoint }
func (c SearchConfig) GetAPIKey() string         { return c.APIKey }
func (c SearchConfig) GetEngineID() string       { return c.EngineID }
func (c SearchConfig) GetTimeout() time.Duration { return c.Timeout }
