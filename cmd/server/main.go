package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/pscheid92/subredirect/internal/adapter/github"
	"github.com/pscheid92/subredirect/internal/adapter/httpserver"
	"github.com/pscheid92/subredirect/internal/adapter/metrics"
	"github.com/pscheid92/subredirect/internal/adapter/redis"
	"github.com/pscheid92/subredirect/internal/app"
	"github.com/pscheid92/subredirect/internal/domain"
	"github.com/pscheid92/subredirect/internal/platform/config"
	"github.com/pscheid92/subredirect/internal/platform/logging"
	"github.com/pscheid92/subredirect/internal/platform/version"
)

func runGracefulShutdown(srv *httpserver.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupRedis(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) *goredis.Client {
	client, err := redis.NewClient(ctx, cfg.RedisURL, metrics.NewRedisMetrics(reg))
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func setupResolver(cfg *config.Config, store domain.ConfigStore, m *metrics.CommitMetrics) domain.CommitResolver {
	switch cfg.CommitSource {
	case config.CommitSourceAPI:
		owner, repo := cfg.RepoOwnerName()
		resolver := github.NewCommitResolver(cfg.GitHubAPIURL, cfg.GitHubToken, owner, repo, cfg.ConfigRef, cfg.HTTPClientTimeout)
		return app.NewInstrumentedResolver(resolver, config.CommitSourceAPI, m)
	default:
		return app.NewInstrumentedResolver(app.NewStoreCommitResolver(store), config.CommitSourceStore, m)
	}
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", version.Get().String(), "commit_source", cfg.CommitSource)

	reg := metrics.NewRegistry()
	commitMetrics := metrics.NewCommitMetrics(reg)

	// The API-backed resolver runs without Redis; publishing is then unavailable.
	var (
		store        domain.ConfigStore
		healthChecks []httpserver.HealthCheck
	)
	if cfg.RedisURL != "" {
		redisClient := setupRedis(context.Background(), cfg, reg)
		defer func() { _ = redisClient.Close() }()

		store = redis.NewConfigStore(redisClient, cfg.StoreNamespace)
		healthChecks = append(healthChecks, httpserver.HealthCheck{
			Name: "redis",
			Check: func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		})
	} else {
		slog.Warn("REDIS_URL not set, publishing is disabled")
	}

	resolver := setupResolver(cfg, store, commitMetrics)

	owner, repo := cfg.RepoOwnerName()
	locator := app.ArtifactLocator{
		RawBaseURL: cfg.RawContentURL,
		Owner:      owner,
		Repo:       repo,
	}
	rewriter := app.NewRewriter(resolver, store, cfg.Token, locator)

	srv, err := httpserver.NewServer(cfg, rewriter, reg, commitMetrics, clock, healthChecks)
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	done := runGracefulShutdown(srv)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
