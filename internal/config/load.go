package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for environment variable overrides, e.g.
// PATHWISE_SERVER_PORT or PATHWISE_DATABASE_URL.
const envPrefix = "PATHWISE"

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence over file values. Returns a validated Config or an error.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Viper only maps env vars it has seen a key for, so register every
	// path explicitly.
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env var for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; env vars may carry everything.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// configKeys lists every config path so environment-only deployments work.
var configKeys = []string{
	"server.port",
	"server.log_level",
	"database.url",
	"auth.jwt_secret",
	"auth.token_lifetime_minutes",
	"generation.gemini_api_key",
	"generation.gemini_model",
	"generation.max_retries",
	"generation.retry_delay_seconds",
	"translation.openai_api_key",
	"translation.openai_model",
	"translation.openai_base_url",
	"lookup.video_api_keys",
	"lookup.encyclopedia_api_keys",
	"lookup.article_api_keys",
	"lookup.video_base_url",
	"lookup.encyclopedia_base_url",
	"lookup.article_base_url",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("generation.gemini_model", "gemini-2.0-flash")
	v.SetDefault("generation.max_retries", 3)
	v.SetDefault("generation.retry_delay_seconds", 2)
	v.SetDefault("translation.openai_model", "gpt-4o-mini")
}
