// Package config handles application configuration loading and validation using Viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Insights    InsightsConfig    `mapstructure:"insights"`
	Matchmaking MatchmakingConfig `mapstructure:"matchmaking"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Badges      []BadgeConfig     `mapstructure:"badges"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig contains database connection settings for PostgreSQL and Redis.
type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// PostgresConfig contains PostgreSQL database connection and pool settings.
type PostgresConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Database        string `mapstructure:"database"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// RedisConfig contains Redis cache connection and pool settings.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// InsightsConfig contains settings for the asynchronous insight job and its
// text-generation collaborator.
type InsightsConfig struct {
	// TextGen selects the commentary collaborator at startup. When disabled
	// or unreachable the job falls back to a deterministic metrics summary.
	TextGen TextGenConfig `mapstructure:"textgen"`
	// UseFeatureModel selects the feature-weighted win-probability path
	// instead of the rank heuristic.
	UseFeatureModel bool `mapstructure:"use_feature_model"`
	// JobTimeout caps a single insight generation run.
	JobTimeout time.Duration `mapstructure:"job_timeout"`
}

// TextGenConfig contains text-generation API settings.
type TextGenConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// MatchmakingConfig contains candidate pool settings for the scorer.
type MatchmakingConfig struct {
	// PoolLimit caps the scored candidate pool for cost control.
	PoolLimit int `mapstructure:"pool_limit"`
}

// SchedulerConfig contains background job scheduling settings.
type SchedulerConfig struct {
	Enabled             bool   `mapstructure:"enabled"`
	BadgeEvaluationTime string `mapstructure:"badge_evaluation_time"` // cron expression
	LFTCleanupTime      string `mapstructure:"lft_cleanup_time"`      // cron expression
	LFTMaxAgeDays       int    `mapstructure:"lft_max_age_days"`
	Timezone            string `mapstructure:"timezone"`
}

// LoggingConfig contains application logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// BadgeConfig represents one badge catalog entry. The catalog is loaded once
// at startup and passed to the eligibility engine as an immutable table.
type BadgeConfig struct {
	Key         string `mapstructure:"key"`
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	Icon        string `mapstructure:"icon"`
	Type        string `mapstructure:"type"` // streak or achievement
}

// DefaultBadges is the built-in badge catalog, used when the config file
// does not override it.
func DefaultBadges() []BadgeConfig {
	return []BadgeConfig{
		{Key: "first_login", Name: "First Steps", Description: "Welcome to VinVerse!", Icon: "🎯", Type: "achievement"},
		{Key: "streak_7", Name: "Week Warrior", Description: "7 day login streak", Icon: "🔥", Type: "streak"},
		{Key: "streak_30", Name: "Monthly Master", Description: "30 day login streak", Icon: "⭐", Type: "streak"},
		{Key: "streak_100", Name: "Century Champion", Description: "100 day login streak", Icon: "👑", Type: "streak"},
		{Key: "first_tournament", Name: "Tournament Rookie", Description: "Joined your first tournament", Icon: "🏆", Type: "achievement"},
	}
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/gamerlink-engine/")
	}

	setDefaults(v)

	// Bind specific environment variables (explicit bindings for 12-factor app compliance)
	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("server.environment", "SERVER_ENVIRONMENT")

	_ = v.BindEnv("database.postgres.host", "POSTGRES_HOST")
	_ = v.BindEnv("database.postgres.port", "POSTGRES_PORT")
	_ = v.BindEnv("database.postgres.database", "POSTGRES_DB")
	_ = v.BindEnv("database.postgres.user", "POSTGRES_USER")
	_ = v.BindEnv("database.postgres.password", "POSTGRES_PASSWORD")
	_ = v.BindEnv("database.postgres.ssl_mode", "POSTGRES_SSL_MODE")

	_ = v.BindEnv("database.redis.host", "REDIS_HOST")
	_ = v.BindEnv("database.redis.port", "REDIS_PORT")
	_ = v.BindEnv("database.redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("database.redis.db", "REDIS_DB")

	_ = v.BindEnv("insights.textgen.enabled", "TEXTGEN_ENABLED")
	_ = v.BindEnv("insights.textgen.base_url", "TEXTGEN_BASE_URL")
	_ = v.BindEnv("insights.textgen.api_key", "TEXTGEN_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("insights.textgen.model", "TEXTGEN_MODEL")
	_ = v.BindEnv("insights.use_feature_model", "INSIGHTS_USE_FEATURE_MODEL")

	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", "LOG_FORMAT")
	_ = v.BindEnv("logging.output", "LOG_OUTPUT")

	_ = v.BindEnv("scheduler.enabled", "SCHEDULER_ENABLED")
	_ = v.BindEnv("scheduler.badge_evaluation_time", "SCHEDULER_BADGE_EVALUATION_TIME")
	_ = v.BindEnv("scheduler.timezone", "SCHEDULER_TIMEZONE")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(config.Badges) == 0 {
		config.Badges = DefaultBadges()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.environment", "development")
	v.SetDefault("database.postgres.ssl_mode", "disable")
	v.SetDefault("database.postgres.max_open_conns", 25)
	v.SetDefault("database.postgres.max_idle_conns", 5)
	v.SetDefault("database.postgres.conn_max_lifetime", 300)
	v.SetDefault("database.redis.port", 6379)
	v.SetDefault("database.redis.pool_size", 10)
	v.SetDefault("insights.textgen.model", "gpt-3.5-turbo")
	v.SetDefault("insights.textgen.timeout", 10*time.Second)
	v.SetDefault("insights.job_timeout", 30*time.Second)
	v.SetDefault("matchmaking.pool_limit", 100)
	v.SetDefault("scheduler.timezone", "UTC")
	v.SetDefault("scheduler.lft_max_age_days", 30)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if c.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if c.Database.Postgres.User == "" {
		return fmt.Errorf("database.postgres.user is required")
	}
	if c.Database.Redis.Host == "" {
		return fmt.Errorf("database.redis.host is required")
	}
	if c.Matchmaking.PoolLimit <= 0 {
		return fmt.Errorf("matchmaking.pool_limit must be positive")
	}
	if c.Insights.TextGen.Enabled && c.Insights.TextGen.APIKey == "" {
		return fmt.Errorf("insights.textgen.api_key is required when textgen is enabled")
	}
	for _, b := range c.Badges {
		if b.Key == "" {
			return fmt.Errorf("badge catalog entries require a key")
		}
		if b.Type != "streak" && b.Type != "achievement" {
			return fmt.Errorf("badge %q has invalid type %q", b.Key, b.Type)
		}
	}
	return nil
}

// GetLocation returns the timezone location.
func (c *SchedulerConfig) GetLocation() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
