// Command migrate runs schema operations for the backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"glowup/internal/config"
	"glowup/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|auto|status|down> [steps]")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cmd := strings.ToLower(strings.TrimSpace(flag.Arg(0)))
	switch cmd {
	case "up":
		if cfg.DBDriver != config.DriverPostgres {
			return fmt.Errorf("sql migrations require DB_DRIVER=postgres, got %q", cfg.DBDriver)
		}
		m, err := database.NewMigrator(database.PostgresURL(cfg))
		if err != nil {
			return err
		}
		defer func() { _ = m.Close() }()
		if err := m.Up(); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		log.Println("sql migrations applied")
	case "down":
		steps := 1
		if flag.NArg() >= 2 {
			steps, err = strconv.Atoi(flag.Arg(1))
			if err != nil {
				return fmt.Errorf("invalid steps %q: %w", flag.Arg(1), err)
			}
		}
		m, err := database.NewMigrator(database.PostgresURL(cfg))
		if err != nil {
			return err
		}
		defer func() { _ = m.Close() }()
		if err := m.Down(steps); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		log.Printf("rolled back %d migration(s)", steps)
	case "auto":
		cfg.DBSchemaMode = config.SchemaModeAuto
		db, err := database.Connect(cfg)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		if err := database.ApplySchema(context.Background(), db, cfg); err != nil {
			return fmt.Errorf("auto schema apply failed: %w", err)
		}
		log.Println("automigrations applied")
	case "status":
		status, err := database.GetSchemaStatus(cfg)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		log.Printf("mode=%s env=%s driver=%s run_sql=%t run_auto=%t version=%d dirty=%t files=%d",
			status.Mode, status.Environment, status.Driver, status.WillRunSQL, status.WillRunAutoMigrate,
			status.Migration.Version, status.Migration.Dirty, len(status.Files))
		for _, f := range status.Files {
			log.Printf("file: %s", f)
		}
	default:
		return usage()
	}
	return nil
}
