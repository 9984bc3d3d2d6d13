package main

// Run database migrations:
//   go run ./cmd/migrate            # up
//   go run ./cmd/migrate -command status

import (
	"context"
	"flag"
	"log"
	"os"

	"focus-backend/internal/shared/config"
	"focus-backend/internal/shared/storage/db"
	"focus-backend/internal/shared/telemetry"
)

func main() {
	command := flag.String("command", "up", "goose command: up, down, status or version")
	flag.Parse()

	cfg := config.Load()
	telemetry.Setup(cfg.Env)
	defer telemetry.Sync()
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, *command); err != nil {
		log.Printf("migrate %s failed: %v", *command, err)
		os.Exit(1)
	}
}
