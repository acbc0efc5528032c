package main

import (
	"fmt"
	"os"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/config"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/database"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/store"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	output string = "text" // "text" or "json"

	cfg *config.Config
	db  *gorm.DB
	st  *store.Store
)

var rootCmd = &cobra.Command{
	Use:   "mindfulmedia",
	Short: "MindfulMedia CLI - inspect engagement data",
	Long: `MindfulMedia CLI reads the engagement tables directly.
Check the schema version, list subscribers, and look up counts.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if output != "text" && output != "json" {
			return fmt.Errorf("unknown output format %q", output)
		}
		db, err = database.Initialize(cfg.Database, false)
		if err != nil {
			return err
		}
		st = store.New(db, cfg.Database.TablePrefix)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return database.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&output, "output", output, "Output format: text or json")

	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(subscribersCmd)
	rootCmd.AddCommand(countsCmd)
	rootCmd.AddCommand(membershipsCmd)
	rootCmd.AddCommand(tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
