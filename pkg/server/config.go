package server

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/deckdown/diagramscene/pkg/cache"
	errs "github.com/deckdown/diagramscene/pkg/errors"
	"github.com/deckdown/diagramscene/pkg/pipeline"
)

// Environment variables read by [LoadConfig].
const (
	EnvAddr        = "DIAGRAMSCENE_ADDR"
	EnvRedisURL    = "DIAGRAMSCENE_REDIS_URL"
	EnvMongoURI    = "DIAGRAMSCENE_MONGO_URI"
	EnvTheme       = "DIAGRAMSCENE_THEME"
	EnvConcurrency = "DIAGRAMSCENE_CONCURRENCY"
	EnvTimeout     = "DIAGRAMSCENE_TIMEOUT"
)

// Defaults for unset variables.
const (
	DefaultAddr    = ":8080"
	DefaultTimeout = 30 * time.Second
)

// Config holds server settings.
type Config struct {
	Addr        string
	RedisURL    string
	MongoURI    string
	ThemePath   string
	Concurrency int
	Timeout     time.Duration
}

// LoadConfig reads the environment after loading the given .env files
// (".env" when none are named). Missing .env files are ignored; variables
// already set in the environment win over file values.
func LoadConfig(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "load %s", f)
		}
	}

	cfg := Config{
		Addr:        getEnv(EnvAddr, DefaultAddr),
		RedisURL:    os.Getenv(EnvRedisURL),
		MongoURI:    os.Getenv(EnvMongoURI),
		ThemePath:   os.Getenv(EnvTheme),
		Concurrency: pipeline.DefaultConcurrency,
		Timeout:     DefaultTimeout,
	}
	if v := os.Getenv(EnvConcurrency); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, errs.New(errs.ErrCodeInvalidInput, "%s must be a positive integer, got %q", EnvConcurrency, v)
		}
		cfg.Concurrency = n
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, errs.New(errs.ErrCodeInvalidInput, "%s must be a positive duration, got %q", EnvTimeout, v)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

// OpenCache connects the configured cache backend: Redis when a URL is
// set, else MongoDB, else a process-local memory cache.
func (c Config) OpenCache(ctx context.Context, logger *log.Logger) (cache.Cache, error) {
	switch {
	case c.RedisURL != "":
		if err := errs.ValidateURL(c.RedisURL, "redis", "rediss", "unix"); err != nil {
			return nil, err
		}
		rc, err := cache.NewRedisCache(ctx, c.RedisURL)
		if err != nil {
			return nil, err
		}
		logger.Info("using redis cache")
		return rc, nil
	case c.MongoURI != "":
		if err := errs.ValidateURL(c.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return nil, err
		}
		mc, err := cache.NewMongoCache(ctx, c.MongoURI)
		if err != nil {
			return nil, err
		}
		logger.Info("using mongo cache")
		return mc, nil
	default:
		logger.Info("using memory cache", "entries", cache.DefaultMemoryEntries)
		return cache.NewMemoryCache(0), nil
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
