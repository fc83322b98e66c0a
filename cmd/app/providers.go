package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/patternlife/internal/domain/narrative"
	"github.com/yanqian/patternlife/internal/domain/pattern"
	"github.com/yanqian/patternlife/internal/domain/route"
	"github.com/yanqian/patternlife/internal/domain/signal"
	"github.com/yanqian/patternlife/internal/infra/config"
	"github.com/yanqian/patternlife/internal/infra/llm/chatgpt"
	"github.com/yanqian/patternlife/internal/infra/llm/tokens"
	"github.com/yanqian/patternlife/internal/infra/places/overpass"
	"github.com/yanqian/patternlife/internal/infra/pointstore"
	"github.com/yanqian/patternlife/internal/infra/resultcache"
	"github.com/yanqian/patternlife/internal/infra/routing/osrm"
)

func providePatternConfig(cfg *config.Config) pattern.ServiceConfig {
	return pattern.ServiceConfig{
		Analysis: cfg.PatternConfig(),
		CacheTTL: cfg.Cache.TTL,
	}
}

func provideRouteConfig(cfg *config.Config) route.Config {
	return route.Config{
		MaxWaypoints: cfg.Routing.MaxPoints,
		Concurrency:  cfg.Routing.Concurrency,
		Simplify:     cfg.Routing.Simplify,
	}
}

func provideNarrativeConfig(cfg *config.Config) narrative.Config {
	return narrative.Config{
		Model:           cfg.LLM.Model,
		Temperature:     cfg.LLM.Temperature,
		SystemPrompt:    cfg.Narrative.SystemPrompt,
		MaxPromptTokens: cfg.Narrative.MaxPromptTokens,
		SearchRadiusM:   cfg.Narrative.SearchRadiusM,
		GridCellLevel:   cfg.Narrative.GridCellLevel,
	}
}

// provideSignalStore opens the configured dataset driver. The cleanup releases pools and handles.
func provideSignalStore(cfg *config.Config, logger *slog.Logger) (signal.Store, func(), error) {
	noop := func() {}
	ds := cfg.Dataset
	switch ds.Driver {
	case "postgres":
		poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(ds.Postgres.DSN))
		if err != nil {
			return nil, noop, fmt.Errorf("parse postgres dsn: %w", err)
		}
		if ds.Postgres.MaxConns > 0 {
			poolConfig.MaxConns = ds.Postgres.MaxConns
		}
		if ds.Postgres.MinConns > 0 {
			poolConfig.MinConns = ds.Postgres.MinConns
		}
		pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
		if err != nil {
			return nil, noop, fmt.Errorf("init postgres pool: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("postgres ping: %w", err)
		}
		source := pointstore.NewPostgresSource(pool)
		if err := source.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, noop, err
		}
		logger.Info("dataset driver enabled", "driver", "postgres")
		return source, pool.Close, nil
	case "sqlite":
		source, err := pointstore.OpenSQLite(ds.SQLite.Path)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("dataset driver enabled", "driver", "sqlite", "path", ds.SQLite.Path)
		return source, func() { _ = source.Close() }, nil
	case "s3":
		o := ds.Object
		source, err := pointstore.NewObjectSource(o.Endpoint, o.AccessKey, o.SecretKey, o.Bucket, o.Key, o.Region, logger)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("dataset driver enabled", "driver", "s3", "bucket", o.Bucket, "key", o.Key)
		return source, noop, nil
	default:
		logger.Info("dataset driver enabled", "driver", "file", "path", ds.Path)
		return pointstore.NewFileSource(ds.Path), noop, nil
	}
}

func provideResultCache(cfg *config.Config, logger *slog.Logger) pattern.ResultCache {
	if cfg.Cache.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return resultcache.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return resultcache.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
			client.Close()
		} else {
			logger.Info("valkey result cache enabled", "addr", cfg.Cache.Redis.Addr)
			return resultcache.NewValkeyStore(client, cfg.Cache.Redis.Prefix)
		}
	}
	return resultcache.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Cache.Redis.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Cache.Redis.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Cache.Redis.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

// provideRouteProvider returns nil when no router is configured; routes then use straight segments.
func provideRouteProvider(cfg *config.Config, logger *slog.Logger) route.Provider {
	if strings.TrimSpace(cfg.Routing.BaseURL) == "" {
		logger.Info("routing base url not set, routes use straight segments")
		return nil
	}
	return osrm.NewClient(cfg.Routing.BaseURL, cfg.Routing.Profile, cfg.Routing.Timeout)
}

// provideChatClient returns nil without an API key; the narrative service then serves fallback text.
func provideChatClient(cfg *config.Config, logger *slog.Logger) narrative.ChatClient {
	client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
	if err != nil {
		logger.Warn("llm client disabled", "error", err)
		return nil
	}
	return client
}

func provideTokenCounter(cfg *config.Config, logger *slog.Logger) narrative.TokenCounter {
	return tokens.NewCounter(cfg.LLM.Encoding, logger)
}

// providePlaceFinder returns nil unless the Overpass lookup is enabled.
func providePlaceFinder(cfg *config.Config, logger *slog.Logger) narrative.PlaceFinder {
	if !cfg.Places.Enabled {
		logger.Info("nearby place lookup disabled")
		return nil
	}
	return overpass.NewClient(cfg.Places.Endpoint, cfg.Places.Timeout, cfg.Places.Limit)
}
