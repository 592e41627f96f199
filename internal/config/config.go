package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Job      JobConfig      `mapstructure:"job" validate:"required"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// Access and refresh token lifetimes, in minutes.
	TokenLifetimeMinutes        int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`

	// BcryptCost selects the hashing work factor. 0 means the library default.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"gte=0,lte=31"`
}

// LLMConfig contains all language-model integration settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name" validate:"required"`

	// RequestTimeoutSeconds bounds every individual model call.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`

	// MaxConcurrent bounds how many model calls the recurrence scan fans
	// out at once.
	MaxConcurrent int `mapstructure:"max_concurrent" validate:"required,gt=0"`
}

// JobConfig contains background job runner settings.
type JobConfig struct {
	WorkerCount      int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize        int `mapstructure:"queue_size" validate:"required,gt=0"`
	StuckTaskAgeMins int `mapstructure:"stuck_task_age_minutes" validate:"required,gt=0"`
}
