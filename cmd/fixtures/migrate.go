package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/fixture-engine/config"
	"github.com/Dosada05/fixture-engine/db"
)

func runMigrate(direction string) error {
	dir := db.Direction(direction)
	if dir != db.Up && dir != db.Down {
		return fmt.Errorf("unknown direction %q, expected up or down", direction)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	conn, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.Migrate(conn, dir); err != nil {
		return err
	}
	slog.Info("migrations applied", slog.String("direction", direction), slog.String("driver", cfg.DatabaseDriver))
	return nil
}
