package main

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/lewtec/realtor/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate up|down|version",
	Short:     "Manage the database schema",
	Long:      `Applies (up) or reverts (down) the embedded schema migrations, or prints the current schema version.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"up", "down", "version"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		db, err := database.Open(cmd.Context(), cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		m, err := database.NewMigrator(db.DB, database.DialectOf(db))
		if err != nil {
			db.Close()
			return err
		}
		// closing the migrator closes db as well
		defer m.Close()

		switch args[0] {
		case "up":
			err = m.Up()
		case "down":
			err = m.Down()
		case "version":
		default:
			return fmt.Errorf("unknown migrate action %q, want up, down or version", args[0])
		}
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("while running migrate %s: %w", args[0], err)
		}

		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Fprintln(cmd.OutOrStdout(), "version\tnone")
			return nil
		}
		if err != nil {
			return fmt.Errorf("while reading schema version: %w", err)
		}
		logger.Debug().Str("action", args[0]).Msg("migrate: done")
		fmt.Fprintf(cmd.OutOrStdout(), "version\t%d\ndirty\t%t\n", version, dirty)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
