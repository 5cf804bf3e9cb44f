package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Commit sources selectable via COMMIT_SOURCE.
const (
	CommitSourceStore = "store"
	CommitSourceAPI   = "api"
)

type Config struct {
	AppEnv string `env:"APP_ENV" default:"development"`
	Port   string `env:"PORT" default:"8080"`

	// Token guards the publish endpoint.
	Token string `env:"TOKEN"`

	CommitSource   string `env:"COMMIT_SOURCE" default:"store"`
	RedisURL       string `env:"REDIS_URL"`
	StoreNamespace string `env:"STORE_NAMESPACE" default:"arx"`

	GitHubToken  string `env:"GITHUB_TOKEN"`
	GitHubAPIURL string `env:"GITHUB_API_URL" default:"https://api.github.com"`

	ConfigRepo    string `env:"CONFIG_REPO" default:"zsokami/ACL4SSR"`
	ConfigRef     string `env:"CONFIG_REF" default:"HEAD"`
	RawContentURL string `env:"RAW_CONTENT_URL" default:"https://raw.githubusercontent.com"`

	HTTPClientTimeout time.Duration `env:"HTTP_CLIENT_TIMEOUT" default:"10s"`

	PublishRateLimit float64 `env:"PUBLISH_RATE_LIMIT" default:"1"`
	PublishRateBurst int     `env:"PUBLISH_RATE_BURST" default:"5"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// RepoOwnerName splits ConfigRepo into owner and repository name.
func (c *Config) RepoOwnerName() (string, string) {
	owner, name, _ := strings.Cut(c.ConfigRepo, "/")
	return owner, name
}

func validate(cfg *Config) error {
	if cfg.Token == "" {
		return errors.New("TOKEN is required")
	}

	switch cfg.CommitSource {
	case CommitSourceStore:
		if cfg.RedisURL == "" {
			return errors.New("REDIS_URL is required when COMMIT_SOURCE=store")
		}
	case CommitSourceAPI:
		if cfg.GitHubToken == "" {
			return errors.New("GITHUB_TOKEN is required when COMMIT_SOURCE=api")
		}
	default:
		return fmt.Errorf("COMMIT_SOURCE must be %q or %q, got %q", CommitSourceStore, CommitSourceAPI, cfg.CommitSource)
	}

	owner, name, ok := strings.Cut(cfg.ConfigRepo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("CONFIG_REPO must be in owner/name form, got %q", cfg.ConfigRepo)
	}

	for name, raw := range map[string]string{
		"GITHUB_API_URL":  cfg.GitHubAPIURL,
		"RAW_CONTENT_URL": cfg.RawContentURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}

	if cfg.HTTPClientTimeout <= 0 {
		return errors.New("HTTP_CLIENT_TIMEOUT must be positive")
	}
	if cfg.PublishRateLimit <= 0 || cfg.PublishRateBurst < 1 {
		return errors.New("PUBLISH_RATE_LIMIT must be positive and PUBLISH_RATE_BURST at least 1")
	}

	return nil
}
