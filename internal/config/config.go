// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable name
const Prefix = "BINGO"

// Config holds server settings. Every field maps to BINGO_<NAME>.
type Config struct {
	Port int    `envconfig:"PORT" default:"8080"`
	Host string `envconfig:"HOST" default:""`

	StorageType string `envconfig:"STORAGE_TYPE" default:"memory"`
	RedisURL    string `envconfig:"REDIS_URL"`
	BoltPath    string `envconfig:"BOLT_PATH" default:"bingo.db"`
	PostgresDSN string `envconfig:"POSTGRES_DSN"`

	TemplatePath          string `envconfig:"TEMPLATE_PATH"`
	RenderCacheSize       int    `envconfig:"RENDER_CACHE_SIZE" default:"256"`
	ArchiveConcurrency    int    `envconfig:"ARCHIVE_CONCURRENCY" default:"4"`
	MaxGenerationAttempts int    `envconfig:"MAX_GENERATION_ATTEMPTS" default:"10000"`

	SessionTTL  time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"*"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("processing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.StorageType {
	case "memory", "bolt":
	case "redis":
		if c.RedisURL == "" {
			return errors.New("BINGO_REDIS_URL required when BINGO_STORAGE_TYPE=redis")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return errors.New("BINGO_POSTGRES_DSN required when BINGO_STORAGE_TYPE=postgres")
		}
	default:
		return fmt.Errorf("invalid storage type %q: must be memory, redis, bolt or postgres", c.StorageType)
	}
	if c.RenderCacheSize <= 0 {
		return fmt.Errorf("render cache size must be positive, got %d", c.RenderCacheSize)
	}
	if c.ArchiveConcurrency <= 0 {
		return fmt.Errorf("archive concurrency must be positive, got %d", c.ArchiveConcurrency)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// Addr is the listen address for the HTTP server
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SlogLevel parses LogLevel
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return level, nil
}
