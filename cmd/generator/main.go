package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"bookit/internal/config"
	"bookit/internal/database"
	"bookit/internal/logger"
	"bookit/internal/repository"
)

var (
	theatreCount  = flag.Int("theatres", 5, "Number of theatres to create")
	showsPer      = flag.Int("shows", 4, "Maximum number of shows per theatre")
	clearExisting = flag.Bool("clear", false, "Delete all existing shows and theatres first")
	dryRun        = flag.Bool("dry-run", false, "Show what would be generated without making changes")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	slog.Info("Starting theatre generator...")

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	plan := BuildPlan(rng, *theatreCount, *showsPer)

	if *dryRun {
		for _, tp := range plan {
			slog.Info("[DRY RUN] Would create theatre", "name", tp.Theatre.Name, "place", tp.Theatre.Place, "shows", len(tp.Shows))
		}
		return
	}

	ctx := context.Background()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	if *clearExisting {
		if err := clearAll(ctx, db); err != nil {
			slog.Error("Failed to clear existing data", "error", err)
			os.Exit(1)
		}
	}

	repos := repository.NewRepositories(db)
	seeder := NewSeeder(repos.Theatres, repos.Shows)

	theatres, shows, err := seeder.Apply(ctx, plan)
	if err != nil {
		slog.Error("Failed to seed data", "error", err)
		os.Exit(1)
	}

	slog.Info("Generation completed successfully!", "theatres", theatres, "shows", shows)
}

// clearAll удаляет шоу и театры в одной транзакции
func clearAll(ctx context.Context, db *database.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM shows")
	if err != nil {
		return err
	}
	showsDeleted, _ := res.RowsAffected()

	res, err = tx.ExecContext(ctx, "DELETE FROM theatres")
	if err != nil {
		return err
	}
	theatresDeleted, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return err
	}

	slog.Info("Cleared existing data", "theatres", theatresDeleted, "shows", showsDeleted)
	return nil
}
