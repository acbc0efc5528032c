package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/config"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/database"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/logger"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/store"
	"go.uber.org/zap"
)

func main() {
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "up", "down", "status":
	default:
		fmt.Println("Usage: migrate [up|down|status]")
		fmt.Println("  up     - Create or upgrade the engagement tables")
		fmt.Println("  down   - Drop the engagement tables unless keep_data_on_uninstall is set")
		fmt.Println("  status - Show the stored and target schema versions")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.FatalWithFields("Failed to load config", err)
	}
	if err := logger.Initialize(cfg.Log); err != nil {
		logger.FatalWithFields("Failed to initialize logger", err)
	}
	defer logger.Close()

	db, err := database.Initialize(cfg.Database, cfg.IsDevelopment())
	if err != nil {
		logger.FatalWithFields("Failed to connect to database", err)
	}
	defer database.Close()

	st := store.New(db, cfg.Database.TablePrefix)
	ctx := context.Background()

	switch command {
	case "up":
		if err := st.CreateSchema(ctx); err != nil {
			logger.FatalWithFields("Migration failed", err)
		}
		logger.Log.Info("Schema is current", zap.Int("version", store.SchemaVersion))

	case "down":
		if cfg.KeepDataOnUninstall {
			logger.Log.Warn("keep_data_on_uninstall is set; leaving engagement tables in place")
			return
		}
		if err := st.DropSchema(ctx); err != nil {
			logger.FatalWithFields("Failed to drop schema", err)
		}
		logger.Log.Info("Engagement tables dropped")

	case "status":
		status, err := st.Status(ctx)
		if err != nil {
			logger.FatalWithFields("Failed to read schema status", err)
		}
		fmt.Printf("stored version: %d\ntarget version: %d\ncurrent: %t\n", status.Stored, status.Target, status.Current)
	}
}
