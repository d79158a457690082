// Package main stores a game-state snapshot file in PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cory-johannsen/encounter/internal/config"
	"github.com/cory-johannsen/encounter/internal/game/encounter"
	"github.com/cory-johannsen/encounter/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	file := flag.String("file", "", "path to the snapshot file (JSON or YAML)")
	name := flag.String("name", "", "snapshot name (defaults to encounter.snapshot)")
	list := flag.Bool("list", false, "list stored snapshots and exit")
	flag.Parse()

	if *file == "" && !*list {
		fmt.Fprintln(os.Stderr, "usage: import-snapshot -file <path> [-name <snapshot>] [-config <path>] | -list")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()
	repo := postgres.NewSnapshotRepository(pool.DB())

	if *list {
		infos, err := repo.List(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "listing snapshots: %v\n", err)
			os.Exit(1)
		}
		for _, info := range infos {
			fmt.Printf("%-32s %s\n", info.Name, info.UpdatedAt.Format(time.RFC3339))
		}
		return
	}

	state, err := encounter.LoadStateFromFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	target := *name
	if target == "" {
		target = cfg.Encounter.Snapshot
	}
	if err := repo.Put(ctx, target, state); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("stored snapshot %q (%d encounters) in %s\n",
		target, len(state.Encounters), time.Since(start).Round(time.Millisecond))
}
