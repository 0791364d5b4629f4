package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"database_uri":     "",
		"telegram_token":   "",
		"state_path":       "fitfuel-state.db",
		"default_timezone": "UTC",
		"log": map[string]interface{}{
			"level": "info",
			"env":   "production",
		},
		"scheduler": map[string]interface{}{
			"check_interval":    60,
			"fallback_interval": 300,
			"startup_delay":     2,
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}
