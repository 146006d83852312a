// Package config loads application settings from the environment and an optional config.yaml.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime setting of the service.
type Config struct {
	AppPort     string
	DBDriver    string
	DatabaseDSN string

	JWTSecret string
	TokenTTL  time.Duration

	// RabbitMQURL disables event publishing when empty.
	RabbitMQURL string

	// S3Bucket disables image uploads when empty; data URI images are then stored verbatim.
	S3Bucket        string
	AWSRegion       string
	S3PublicBaseURL string

	// UniqueRecipeNames rejects creating a recipe whose name is already used.
	UniqueRecipeNames bool

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables, falling back to config.yaml
// found in any of paths (default: the working directory) and then to defaults.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=foodgram port=5432 sslmode=disable")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("S3_BUCKET_NAME", "")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("S3_PUBLIC_BASE_URL", "")
	v.SetDefault("RECIPE_UNIQUE_NAMES", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:           v.GetString("APP_PORT"),
		DBDriver:          v.GetString("DB_DRIVER"),
		DatabaseDSN:       v.GetString("DATABASE_DSN"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		TokenTTL:          v.GetDuration("TOKEN_TTL"),
		RabbitMQURL:       v.GetString("RABBITMQ_URL"),
		S3Bucket:          v.GetString("S3_BUCKET_NAME"),
		AWSRegion:         v.GetString("AWS_REGION"),
		S3PublicBaseURL:   v.GetString("S3_PUBLIC_BASE_URL"),
		UniqueRecipeNames: v.GetBool("RECIPE_UNIQUE_NAMES"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         v.GetString("LOG_FORMAT"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the service cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}
	if c.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN must be set")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}
