package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"      validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database"    validate:"required"`
	Auth        AuthConfig        `mapstructure:"auth"        validate:"required"`
	Generation  GenerationConfig  `mapstructure:"generation"  validate:"required"`
	Translation TranslationConfig `mapstructure:"translation" validate:"required"`
	Lookup      LookupConfig      `mapstructure:"lookup"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// GenerationConfig contains the text generation provider settings.
type GenerationConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key" validate:"required"`
	GeminiModel       string `mapstructure:"gemini_model" validate:"required"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0,lte=60"`
}

// TranslationConfig contains the translation provider settings.
type TranslationConfig struct {
	OpenAIAPIKey string `mapstructure:"openai_api_key" validate:"required"`
	OpenAIModel  string `mapstructure:"openai_model" validate:"required"`
	// OpenAIBaseURL overrides the endpoint for OpenAI-compatible providers.
	OpenAIBaseURL string `mapstructure:"openai_base_url" validate:"omitempty,url"`
}

// LookupConfig contains the supporting-resource lookup settings. Key lists
// may be empty: the resource finder then serves degraded fallbacks instead
// of failing days.
type LookupConfig struct {
	VideoAPIKeys        []string `mapstructure:"video_api_keys"`
	EncyclopediaAPIKeys []string `mapstructure:"encyclopedia_api_keys"`
	ArticleAPIKeys      []string `mapstructure:"article_api_keys"`

	// Base URL overrides for tests and proxies; empty selects the real APIs.
	VideoBaseURL        string `mapstructure:"video_base_url" validate:"omitempty,url"`
	EncyclopediaBaseURL string `mapstructure:"encyclopedia_base_url" validate:"omitempty,url"`
	ArticleBaseURL      string `mapstructure:"article_base_url" validate:"omitempty,url"`
}
