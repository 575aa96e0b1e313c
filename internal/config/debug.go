package config

import "os"

func IsDebug() bool {
	return os.Getenv("ASK_DEBUG") == "1"
}
