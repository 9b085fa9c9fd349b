package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notesapi/notesapi/internal/migrations"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect schema migrations",
	}

	cmd.AddCommand(
		migrateAction(opts, "up", "Apply all pending migrations", migrations.Up),
		migrateAction(opts, "down", "Roll back the latest migration", migrations.Down),
		migrateAction(opts, "status", "Print applied and pending migrations", migrations.Status),
	)

	return cmd
}

func migrateAction(opts *rootOptions, use, short string, fn func(context.Context, *sql.DB) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.requireDatabaseURL(); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			db, err := migrations.Open(opts.databaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := fn(ctx, db); err != nil {
				return fmt.Errorf("migrate %s: %w", use, err)
			}
			return nil
		},
	}
}
