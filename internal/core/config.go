package core

import "time"

type SearchConfig interface {
	GetEndpoint() string
	GetAPIKey() string
	GetEngineID() string
	GetTimeout() time.Duration
}
