package config

import "time"

// Config is the root application configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Matching  MatchingConfig  `yaml:"matching"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Log       LogConfig       `yaml:"log"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// MatchingConfig holds sweep cadence and similarity thresholds.
//
// ComparabilityThreshold decides whether a pair is considered a candidate
// match at all; NotificationThreshold decides whether users are actually
// notified. Validate enforces notification >= comparability.
type MatchingConfig struct {
	SweepInterval          time.Duration `yaml:"sweep_interval"           env:"MATCHING_SWEEP_INTERVAL"           env-default:"60s"`
	RecencyWindow          time.Duration `yaml:"recency_window"           env:"MATCHING_RECENCY_WINDOW"           env-default:"720h"`
	ComparabilityThreshold float64       `yaml:"comparability_threshold"  env:"MATCHING_COMPARABILITY_THRESHOLD"  env-default:"0.75"`
	NotificationThreshold  float64       `yaml:"notification_threshold"   env:"MATCHING_NOTIFICATION_THRESHOLD"   env-default:"0.85"`
}

// EmbeddingConfig holds the image embedding inference server settings.
type EmbeddingConfig struct {
	BaseURL    string        `yaml:"base_url"   env:"EMBEDDING_BASE_URL"   env-default:"http://localhost:11434"`
	Model      string        `yaml:"model"      env:"EMBEDDING_MODEL"      env-default:"clip-vit-b-32"`
	Timeout    time.Duration `yaml:"timeout"    env:"EMBEDDING_TIMEOUT"    env-default:"30s"`
	Dimensions int           `yaml:"dimensions" env:"EMBEDDING_DIMENSIONS" env-default:"512"`
}

// TelegramConfig holds Bot API settings for intake and notifications.
type TelegramConfig struct {
	Token       string        `yaml:"token"         env:"TELEGRAM_TOKEN"         env-required:"true"`
	APIBaseURL  string        `yaml:"api_base_url"  env:"TELEGRAM_API_BASE_URL"  env-default:"https://api.telegram.org"`
	PollTimeout time.Duration `yaml:"poll_timeout"  env:"TELEGRAM_POLL_TIMEOUT"  env-default:"30s"`
	SendTimeout time.Duration `yaml:"send_timeout"  env:"TELEGRAM_SEND_TIMEOUT"  env-default:"10s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
