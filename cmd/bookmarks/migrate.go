package main

import (
	"github.com/spf13/cobra"

	"github.com/rpattn/bookmarks/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		return db.RunMigrations(cfg.Database)
	},
}
