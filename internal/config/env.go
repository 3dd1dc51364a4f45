package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv populates cfg from environment variables via caarlos0/env.
// Variable names follow the `env` and `envPrefix` tags on [StructuredConfig]
// and its nested sections (APP_, SERVER_, STORAGE_DB_, ADAPTER_MAIL_).
//
// Returns a wrapped error when a variable cannot be converted to its field's
// type, for example a malformed duration.
func parseEnv(cfg any) error {
	err := env.Parse(cfg)
	if err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}
