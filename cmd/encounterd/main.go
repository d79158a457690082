// Package main provides the encounter server: the Telnet acceptor and the
// JSON encounter API over one snapshot source.
package main

import (
	"context"
	"flag"
	"log"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/encounter/internal/config"
	"github.com/cory-johannsen/encounter/internal/frontend/handlers"
	"github.com/cory-johannsen/encounter/internal/frontend/telnet"
	"github.com/cory-johannsen/encounter/internal/game/encounter"
	"github.com/cory-johannsen/encounter/internal/observability"
	"github.com/cory-johannsen/encounter/internal/server"
	"github.com/cory-johannsen/encounter/internal/storage/postgres"
	"github.com/cory-johannsen/encounter/internal/web"
)

const healthInterval = 30 * time.Second

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting encounter server",
		zap.String("source", cfg.Encounter.Source),
		zap.Duration("pace_delay", cfg.Encounter.PaceDelay),
	)

	ctx := context.Background()
	lifecycle := server.NewLifecycle(logger)

	var source encounter.StateSource
	switch cfg.Encounter.Source {
	case config.SourcePostgres:
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		lifecycle.OnShutdown(pool.Close)
		lifecycle.Add("postgres", healthService(ctx, pool, logger))
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Int("port", cfg.Database.Port),
			zap.String("database", cfg.Database.Name),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		source = postgres.SnapshotSource{
			Repo: postgres.NewSnapshotRepository(pool.DB()),
			Name: cfg.Encounter.Snapshot,
		}
	default:
		source = encounter.FileSource{Path: cfg.Encounter.StatePath}
	}

	// Fail fast on a broken snapshot; sessions reload it on every connect.
	state, err := source.Load(ctx)
	if err != nil {
		logger.Fatal("loading game state", zap.Error(err))
	}
	logger.Info("game state loaded",
		zap.Int("encounters", len(state.Encounters)),
		zap.Int("current_encounter", state.CurrentEncounter),
	)

	handler := handlers.NewEncounterHandler(source, cfg.Encounter, logger)
	acceptor := telnet.NewAcceptor(cfg.Telnet, handler, logger)
	lifecycle.Add("telnet", &server.FuncService{
		StartFn: acceptor.ListenAndServe,
		StopFn:  acceptor.Stop,
	})

	if cfg.HTTP.Enabled {
		api := web.NewServer(cfg.HTTP, cfg.Encounter, source, logger)
		lifecycle.Add("http", &server.FuncService{
			StartFn: api.Start,
			StopFn:  api.Stop,
		})
	}

	logger.Info("server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("telnet_addr", cfg.Telnet.Addr()),
		zap.Bool("http_enabled", cfg.HTTP.Enabled),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

// healthService pings the pool every healthInterval until stopped.
func healthService(ctx context.Context, pool *postgres.Pool, logger *zap.Logger) *server.FuncService {
	done := make(chan struct{})
	var once sync.Once
	return &server.FuncService{
		StartFn: func() error {
			ticker := time.NewTicker(healthInterval)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return nil
				case <-ticker.C:
					if err := pool.Health(ctx, 5*time.Second); err != nil {
						logger.Warn("database health check failed", zap.Error(err))
					}
				}
			}
		},
		StopFn: func() { once.Do(func() { close(done) }) },
	}
}
