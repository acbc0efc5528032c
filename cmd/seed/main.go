package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/cache"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/config"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/database"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/engagement"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/logger"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/seed"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/store"
)

func main() {
	command := "dev"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	var opts seed.Options
	switch command {
	case "dev":
		opts = seed.DevOptions()
	case "test":
		opts = seed.TestOptions()
	case "clean":
	default:
		fmt.Println("Usage: seed [dev|test|clean]")
		fmt.Println("  dev   - Seed development database with realistic data")
		fmt.Println("  test  - Seed test database with minimal data")
		fmt.Println("  clean - Remove all rows (use with caution)")
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

	ctx := context.Background()
	st := store.New(db, cfg.Database.TablePrefix)
	if err := st.CreateSchema(ctx); err != nil {
		logger.FatalWithFields("Failed to create schema", err)
	}

	// Seeding bypasses the count cache
	svc := engagement.NewService(st, cache.Nop{}, cfg.Engagement)
	seeder := seed.NewSeeder(st, svc)

	if command == "clean" {
		if err := seeder.Clean(ctx); err != nil {
			logger.FatalWithFields("Clean failed", err)
		}
		logger.Log.Info("All rows removed")
		return
	}

	res, err := seeder.Seed(ctx, opts)
	if err != nil {
		logger.FatalWithFields("Seeding failed", err)
	}
	fmt.Printf("Seeded %d users, %d media items, %d terms, %d memberships\n", res.Users, res.Media, res.Terms, res.Memberships)
	fmt.Printf("  %d likes, %d comments, %d subscriptions, %d watches\n", res.Likes, res.Comments, res.Subscriptions, res.Watches)
	fmt.Printf("Protected content unlocks with %q\n", seed.DemoPassword)
}
