/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/simplenotes/notes/config"
	"github.com/simplenotes/notes/internal/db"
	"github.com/spf13/cobra"
)

var migrationsPath string

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrations(db.Up)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert all migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrations(db.Down)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)

	migrateCmd.PersistentFlags().StringVar(&migrationsPath, "path", "", "directory holding the SQL migrations (defaults to MIGRATIONS_PATH)")
}

func runMigrations(dir db.Direction) error {
	cfg := config.LoadConfig()
	logger := newLogger(cfg.LogLevel)

	path := migrationsPath
	if path == "" {
		path = cfg.MigrationsPath
	}

	if err := db.Migrate(cfg, path, dir); err != nil {
		logger.WithError(err).Error("migration failed")
		return err
	}
	logger.WithField("path", path).Info("migrations applied")
	return nil
}
