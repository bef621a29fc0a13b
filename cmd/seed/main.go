package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/logger"
)

var (
	cfg *config.Config
	log zerolog.Logger

	// Global flags
	migrate bool
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the storefront database",
	Long: `Seed creates the accounts and demo catalog a fresh storefront needs.

Examples:
  seed admin --username admin --email admin@example.com --password secret
  seed catalog --seller sally`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		log = logger.New(cfg.LogLevel, cfg.LogFormat)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&migrate, "migrate", true, "Run schema migrations before seeding")
	rootCmd.AddCommand(adminCmd, catalogCmd)
}

// openDB connects with the configured driver and migrates when asked.
func openDB() (*gorm.DB, error) {
	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := db.Migrate(gormDB, false); err != nil {
			return nil, err
		}
	}
	return gormDB, nil
}
