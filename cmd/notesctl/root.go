package main

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var errDatabaseURLRequired = errors.New("--database-url or DATABASE_URL is required")

type rootOptions struct {
	databaseURL string
	timeout     time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "notesctl",
		Short:         "Operate the notes API database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Overall command timeout")

	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newTokenCmd(opts))

	return cmd
}

func (o *rootOptions) requireDatabaseURL() error {
	if o.databaseURL == "" {
		return errDatabaseURLRequired
	}
	return nil
}
