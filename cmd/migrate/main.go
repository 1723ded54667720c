package main

// Run database migrations:
//   go run ./cmd/migrate            apply pending migrations
//   go run ./cmd/migrate status     print applied state
//   go run ./cmd/migrate down       roll back the latest migration

import (
	"context"
	"os"

	"record-attachments/internal/shared/config"
	"record-attachments/internal/shared/storage/db"
	"record-attachments/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer sqlDB.Close()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		err = db.RunMigrations(ctx, sqlDB)
	case "status":
		err = db.MigrationStatus(ctx, sqlDB)
	case "down":
		err = db.RollbackMigration(ctx, sqlDB)
	default:
		telemetry.Error("migrate.unknown_command", map[string]any{"command": cmd})
		sqlDB.Close()
		os.Exit(2)
	}
	if err != nil {
		telemetry.Error("migrate.failed", map[string]any{"command": cmd, "error": err.Error()})
		sqlDB.Close()
		os.Exit(1)
	}
	telemetry.Info("migrate.done", map[string]any{"command": cmd})
}
