package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT" validate:"required,numeric"`
	LogLevel   string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`

	PostgresHost     string `mapstructure:"POSTGRES_HOST"`
	PostgresPort     string `mapstructure:"POSTGRES_PORT"`
	PostgresUser     string `mapstructure:"POSTGRES_USER"`
	PostgresPassword string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDB       string `mapstructure:"POSTGRES_DB"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB" validate:"gte=0"`

	BatchSize             int      `mapstructure:"BATCH_SIZE" validate:"gte=1"`
	NavigationTimeoutMS   int      `mapstructure:"NAVIGATION_TIMEOUT_MS" validate:"gte=1"`
	SettleDelayMS         int      `mapstructure:"SETTLE_DELAY_MS" validate:"gte=0"`
	ExclusionPatterns     []string `mapstructure:"EXCLUSION_PATTERNS"`
	ChromePath            string   `mapstructure:"CHROME_PATH"`
	Headless              bool     `mapstructure:"HEADLESS"`
	ResultTTLHours        int      `mapstructure:"RESULT_TTL_HOURS" validate:"gte=1"`
	MaxRunDurationMinutes int      `mapstructure:"MAX_RUN_DURATION_MINUTES" validate:"gte=0"`
}

var defaults = map[string]any{
	"SERVER_PORT":              "8080",
	"LOG_LEVEL":                "info",
	"POSTGRES_HOST":            "localhost",
	"POSTGRES_PORT":            "5432",
	"POSTGRES_USER":            "user",
	"POSTGRES_PASSWORD":        "password",
	"POSTGRES_DB":              "careerscan",
	"REDIS_ADDR":               "localhost:6379",
	"REDIS_PASSWORD":           "",
	"REDIS_DB":                 0,
	"BATCH_SIZE":               5,
	"NAVIGATION_TIMEOUT_MS":    20000,
	"SETTLE_DELAY_MS":          2000,
	"EXCLUSION_PATTERNS":       []string{"recaptcha", "paypal", "stripe"},
	"CHROME_PATH":              "",
	"HEADLESS":                 true,
	"RESULT_TTL_HOURS":         72,
	"MAX_RUN_DURATION_MINUTES": 60,
}

var validate = validator.New()

// New returns a viper instance with defaults applied, the optional .env file read
// and environment variables taking precedence. Callers may bind flags on it before Decode.
func New() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing .env file is fine; production configures through the environment.
	_ = v.ReadInConfig()
	return v
}

// Load reads configuration from the .env file and environment variables.
func Load() (*Config, error) {
	return Decode(New())
}

// Decode unmarshals and validates the configuration held by v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.ExclusionPatterns = splitList(cfg.ExclusionPatterns)

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// PostgresDSN builds the connection string for pgxpool.
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:     c.PostgresHost + ":" + c.PostgresPort,
		Path:     c.PostgresDB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (c *Config) NavigationTimeout() time.Duration {
	return time.Duration(c.NavigationTimeoutMS) * time.Millisecond
}

func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMS) * time.Millisecond
}

func (c *Config) ResultTTL() time.Duration {
	return time.Duration(c.ResultTTLHours) * time.Hour
}

// MaxRunDuration is zero when runs are unbounded.
func (c *Config) MaxRunDuration() time.Duration {
	return time.Duration(c.MaxRunDurationMinutes) * time.Minute
}

// splitList accepts both list values and a single comma-separated string.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
