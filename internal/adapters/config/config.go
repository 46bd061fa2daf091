package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config represents application configuration
type Config struct {
	Database    DatabaseConfig    `envconfig:"DATABASE"`
	Redis       RedisConfig       `envconfig:"REDIS"`
	ClickHouse  ClickHouseConfig  `envconfig:"CLICKHOUSE"`
	Telegram    TelegramConfig    `envconfig:"TELEGRAM"`
	Server      ServerConfig      `envconfig:"SERVER"`
	Dashboard   DashboardConfig   `envconfig:"DASHBOARD"`
	Preferences PreferencesConfig `envconfig:"PREFERENCES"`
	Logging     LoggingConfig     `envconfig:"LOGGING"`
}

// DatabaseConfig represents database connection parameters
type DatabaseConfig struct {
	Host           string `envconfig:"DB_HOST" default:"localhost"`
	Port           int    `envconfig:"DB_PORT" default:"5432"`
	Name           string `envconfig:"DB_NAME" default:"postgres"`
	User           string `envconfig:"DB_USER" required:"true"`
	Password       string `envconfig:"DB_PASSWORD" required:"true"`
	SSLMode        string `envconfig:"DB_SSLMODE" default:"require"`
	MigrationsPath string `envconfig:"DB_MIGRATIONS_PATH" default:"./migrations"`
	RunMigrations  bool   `envconfig:"DB_RUN_MIGRATIONS" default:"false"`
}

// RedisConfig represents Redis cache and lock configuration
type RedisConfig struct {
	Enabled    bool          `envconfig:"REDIS_ENABLED" default:"false"`
	Host       string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port       int           `envconfig:"REDIS_PORT" default:"6379"`
	Password   string        `envconfig:"REDIS_PASSWORD" required:"false"`
	DB         int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL   time.Duration `envconfig:"REDIS_CACHE_TTL" default:"30s"`
	LockExpiry time.Duration `envconfig:"REDIS_LOCK_EXPIRY" default:"5m"`
}

// ClickHouseConfig represents the optional sentiment history sink
type ClickHouseConfig struct {
	Enabled bool   `envconfig:"CLICKHOUSE_ENABLED" default:"false"`
	DSN     string `envconfig:"CLICKHOUSE_DSN" default:"clickhouse://localhost:9000/default"`
}

// TelegramConfig represents Telegram alert configuration
type TelegramConfig struct {
	Enabled  bool   `envconfig:"TELEGRAM_ENABLED" default:"false"`
	BotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"false"`
	ChatID   int64  `envconfig:"TELEGRAM_CHAT_ID" required:"false"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port         string        `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15s"`
}

// DashboardConfig represents data shaping and refresh parameters
type DashboardConfig struct {
	RecentNewsCount  int           `envconfig:"DASHBOARD_RECENT_NEWS_COUNT" default:"20"`
	CompanyNewsCount int           `envconfig:"DASHBOARD_COMPANY_NEWS_COUNT" default:"20"`
	RefreshInterval  time.Duration `envconfig:"DASHBOARD_REFRESH_INTERVAL" default:"5m"`
	AlertInterval    time.Duration `envconfig:"DASHBOARD_ALERT_INTERVAL" default:"15m"`
	SnapshotSchedule string        `envconfig:"DASHBOARD_SNAPSHOT_SCHEDULE" default:"0 18 * * *"`
	SeriesJitter     float64       `envconfig:"DASHBOARD_SERIES_JITTER" default:"0.1"`
	MinVolume        int           `envconfig:"DASHBOARD_MIN_VOLUME" default:"10"`
	MaxVolume        int           `envconfig:"DASHBOARD_MAX_VOLUME" default:"109"`
}

// PreferencesConfig seeds the local user preferences
type PreferencesConfig struct {
	Language          string   `envconfig:"PREFERENCES_LANGUAGE" default:"en"`
	Theme             string   `envconfig:"PREFERENCES_THEME" default:"dark"`
	Layout            string   `envconfig:"PREFERENCES_LAYOUT" default:"default"`
	Watchlist         []string `envconfig:"PREFERENCES_WATCHLIST" default:""`
	PositiveThreshold float64  `envconfig:"PREFERENCES_POSITIVE_THRESHOLD" default:"0.5"`
	NegativeThreshold float64  `envconfig:"PREFERENCES_NEGATIVE_THRESHOLD" default:"-0.5"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	File  string `envconfig:"LOG_FILE" default:""`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Dashboard.RecentNewsCount < 1 {
		return fmt.Errorf("recent news count must be at least 1")
	}
	if c.Dashboard.CompanyNewsCount < 1 {
		return fmt.Errorf("company news count must be at least 1")
	}
	if c.Dashboard.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive")
	}
	if c.Dashboard.SeriesJitter < 0 || c.Dashboard.SeriesJitter > 1 {
		return fmt.Errorf("series jitter must be between 0 and 1")
	}
	if c.Dashboard.MinVolume < 0 || c.Dashboard.MaxVolume < c.Dashboard.MinVolume {
		return fmt.Errorf("volume range must satisfy 0 <= min <= max")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram bot token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram chat_id is required when telegram is enabled")
		}
		if c.Dashboard.AlertInterval <= 0 {
			return fmt.Errorf("alert interval must be positive when telegram is enabled")
		}
	}

	if c.ClickHouse.Enabled && c.ClickHouse.DSN == "" {
		return fmt.Errorf("clickhouse dsn is required when clickhouse is enabled")
	}

	return nil
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Addr returns host:port of the redis server
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
