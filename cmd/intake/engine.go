package main

import (
	"fmt"
	"log/slog"

	"github.com/carebridge/intake"
	"github.com/carebridge/intake/internal/adapters/file"
	redisAdapter "github.com/carebridge/intake/internal/adapters/redis"
	"github.com/carebridge/intake/internal/config"
	"github.com/carebridge/intake/pkg/adapters/memory"
	"github.com/carebridge/intake/pkg/persistence/middleware"
	"github.com/carebridge/intake/pkg/ports"
)

// buildEngine assembles the engine from the configuration: the session
// store (redis, file backed or in-memory) wrapped in the configured privacy
// middlewares, the distributed locker when redis is shared, and the persona
// settings.
// The returned redis store is non-nil when the caller must close it.
func buildEngine(cfg *config.Config, logger *slog.Logger) (*intake.Engine, *redisAdapter.Store, error) {
	opts := []intake.Option{
		intake.WithLogger(logger),
		intake.WithPersona(cfg.Persona),
		intake.WithSettings(cfg.Flow),
	}

	var redisStore *redisAdapter.Store
	var store ports.StateStore
	switch {
	case cfg.Redis.Enabled:
		redisStore = redisAdapter.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB,
			redisAdapter.WithTTL(cfg.Redis.TTL))
		store = redisStore
		opts = append(opts, intake.WithLocker(redisAdapter.NewLocker(redisStore.Client(), "intake:")))
	case cfg.File.Enabled:
		store = file.New(cfg.File.Path)
	default:
		store = memory.NewStore()
	}

	middlewares, err := cfg.Privacy.Middlewares()
	if err != nil {
		return nil, nil, fmt.Errorf("privacy configuration: %w", err)
	}
	opts = append(opts, intake.WithStore(middleware.Chain(store, middlewares...)))

	engine, err := intake.New(opts...)
	if err != nil {
		if redisStore != nil {
			_ = redisStore.Close()
		}
		return nil, nil, err
	}
	return engine, redisStore, nil
}
