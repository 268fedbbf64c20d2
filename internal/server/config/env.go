package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every variable name, e.g. ENTRUST_HTTP_ADDR.
// GEMINI_API_KEY is also read without the prefix.
const EnvPrefix = "entrust"

var loadDotEnv = func() { _ = godotenv.Load() }

// parseEnv overlays values from the process environment. A .env file in the
// working directory is loaded first when present; variables that are unset
// keep the value already in config.
func parseEnv(config *Config) error {
	loadDotEnv()
	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return fmt.Errorf("error processing environment: %w", err)
	}
	return nil
}
