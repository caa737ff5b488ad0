package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/galihcitta/chalet-reservation-system/internal/config"
	"github.com/galihcitta/chalet-reservation-system/internal/repository"
)

func loadDatabaseConfig() (config.DatabaseConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.DatabaseConfig{}, err
	}
	if cfg.Database.URL == "" {
		return config.DatabaseConfig{}, fmt.Errorf("database.url is not set (config.yaml or DATABASE_URL)")
	}
	return cfg.Database, nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := loadDatabaseConfig()
			if err != nil {
				return err
			}
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer logger.Sync()
			return repository.RunMigrations(db.MigrationsPath, db.URL, logger)
		},
	}

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := loadDatabaseConfig()
			if err != nil {
				return err
			}
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer logger.Sync()
			return repository.RollbackMigrations(db.MigrationsPath, db.URL, steps, logger)
		},
	}
	downCmd.Flags().IntVarP(&steps, "steps", "n", 1, "number of migrations to roll back")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := loadDatabaseConfig()
			if err != nil {
				return err
			}
			version, dirty, err := repository.MigrationVersion(db.MigrationsPath, db.URL)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
			return nil
		},
	}

	cmd.AddCommand(upCmd, downCmd, versionCmd)
	return cmd
}
