// Package main runs one encounter on the local terminal.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/encounter/internal/config"
	"github.com/cory-johannsen/encounter/internal/frontend/handlers"
	"github.com/cory-johannsen/encounter/internal/game/encounter"
	"github.com/cory-johannsen/encounter/internal/observability"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	statePath := flag.String("state", "", "snapshot file to play (overrides encounter.state_path)")
	seed := flag.Int64("seed", 0, "deterministic dice seed (overrides encounter.seed)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *statePath != "" {
		cfg.Encounter.StatePath = *statePath
	}
	if *seed != 0 {
		cfg.Encounter.Seed = *seed
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := encounter.FileSource{Path: cfg.Encounter.StatePath}
	handler := handlers.NewEncounterHandler(source, cfg.Encounter, logger)
	term := handlers.NewStreamTerminal(os.Stdin, os.Stdout)

	if err := handler.Play(ctx, uuid.NewString(), "console", term); err != nil {
		logger.Error("encounter ended with error", zap.Error(err))
		os.Exit(1)
	}
}
