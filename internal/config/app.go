package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/askbot/pkg/log"
)

const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

type AppConfig struct {
	RuntimePath string `env:"ASK_RUNTIME_PATH" envDefault:".askbot"`
	ListenAddr  string `env:"ASK_LISTEN_ADDR" envDefault:":3000"`

	// Credential storage: memory or sqlite
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"memory"`

	// Conversation context
	HistorySize             int    `env:"HISTORY_SIZE" envDefault:"20"` // at least 2
	HistoryScope            string `env:"HISTORY_SCOPE" envDefault:"channel"` // global, channel or thread
	HistoryMaxConversations int    `env:"HISTORY_MAX_CONVERSATIONS" envDefault:"1000"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	c.RuntimePath = GetRuntimePath()
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "askbot.db")
}

func (c AppConfig) GetListenAddr() string {
	return c.ListenAddr
}

func (c AppConfig) IsSQLiteSelected() bool {
	return c.StorageBackend == StorageSQLite
}
