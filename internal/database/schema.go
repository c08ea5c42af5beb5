package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"glowup/internal/config"
	"glowup/internal/middleware"

	"gorm.io/gorm"
)

// SchemaStatus summarizes what ApplySchema will do and what is already applied.
type SchemaStatus struct {
	Mode               string
	Environment        string
	Driver             string
	WillRunSQL         bool
	WillRunAutoMigrate bool
	Migration          MigrationStatus
	Files              []string
}

func isProdLikeEnv(env string) bool {
	e := strings.ToLower(strings.TrimSpace(env))
	return e == "production" || e == "prod" || e == "staging" || e == "stage"
}

func normalizedSchemaMode(cfg *config.Config) string {
	mode := strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode))
	if mode == "" {
		return config.SchemaModeSQL
	}
	return mode
}

// schemaPolicy decides which schema mechanisms run. SQL migrations are written
// for PostgreSQL, so SQLite always uses AutoMigrate.
func schemaPolicy(cfg *config.Config) (runSQL bool, runAuto bool, err error) {
	if cfg.DBDriver == config.DriverSQLite {
		return false, true, nil
	}

	mode := normalizedSchemaMode(cfg)
	prodLike := isProdLikeEnv(cfg.Env)

	switch mode {
	case config.SchemaModeSQL:
		return true, false, nil
	case config.SchemaModeAuto:
		if prodLike {
			return false, false, fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q; use sql migrations", cfg.Env)
		}
		return false, true, nil
	case config.SchemaModeHybrid:
		return true, !prodLike, nil
	default:
		return false, false, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", mode)
	}
}

func runAutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(PersistentModels()...)
}

// ApplySchema brings the database schema up to date according to DB_SCHEMA_MODE.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	runSQL, runAuto, err := schemaPolicy(cfg)
	if err != nil {
		return err
	}

	if runSQL {
		m, err := NewMigrator(PostgresURL(cfg))
		if err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
		upErr := m.Up()
		closeErr := m.Close()
		if upErr != nil {
			return fmt.Errorf("run sql migrations: %w", upErr)
		}
		if closeErr != nil {
			middleware.Logger.Warn("Failed to close migrator", slog.String("error", closeErr.Error()))
		}
	}

	if runAuto {
		middleware.Logger.Info("Running GORM AutoMigrate",
			slog.String("mode", normalizedSchemaMode(cfg)),
			slog.String("driver", cfg.DBDriver),
			slog.String("env", cfg.Env),
		)
		if err := runAutoMigrate(db.WithContext(ctx)); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}

	return nil
}

// GetSchemaStatus reports the schema policy and, for SQL mode, the applied version.
func GetSchemaStatus(cfg *config.Config) (*SchemaStatus, error) {
	runSQL, runAuto, err := schemaPolicy(cfg)
	if err != nil {
		return nil, err
	}

	files, err := MigrationFiles()
	if err != nil {
		return nil, err
	}

	status := &SchemaStatus{
		Mode:               normalizedSchemaMode(cfg),
		Environment:        cfg.Env,
		Driver:             cfg.DBDriver,
		WillRunSQL:         runSQL,
		WillRunAutoMigrate: runAuto,
		Files:              files,
	}

	if !runSQL {
		return status, nil
	}

	m, err := NewMigrator(PostgresURL(cfg))
	if err != nil {
		return nil, err
	}
	defer func() { _ = m.Close() }()

	status.Migration, err = m.Status()
	if err != nil {
		return nil, err
	}
	return status, nil
}
