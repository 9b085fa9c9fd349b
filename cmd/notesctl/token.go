package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/notesapi/notesapi/internal/auth"
	"github.com/notesapi/notesapi/internal/model"
	"github.com/notesapi/notesapi/internal/repository"
	"github.com/notesapi/notesapi/internal/service"
)

type tokenOutput struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

type tokenOptions struct {
	secret string
	format string
}

func newTokenCmd(root *rootOptions) *cobra.Command {
	opts := &tokenOptions{}

	cmd := &cobra.Command{
		Use:   "token <username>",
		Short: "Print the API token for a user, creating the user if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != "plain" && opts.format != "json" {
				return fmt.Errorf("unknown format %q", opts.format)
			}
			codec, err := auth.NewCodec(opts.secret)
			if err != nil {
				return fmt.Errorf("--secret or SECRET_TOKEN: %w", err)
			}
			if err := root.requireDatabaseURL(); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), root.timeout)
			defer cancel()

			repo, err := repository.New(ctx, repository.Config{DatabaseURL: root.databaseURL})
			if err != nil {
				return err
			}
			defer repo.Close()

			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			users := service.NewUserService(repo, nil, nil, logger)

			user, err := users.GetOrCreateUser(ctx, args[0])
			if err != nil {
				if errors.Is(err, service.ErrInvalidUsername) {
					return errors.New("username cannot be empty")
				}
				return err
			}

			return writeToken(cmd.OutOrStdout(), opts.format, user, codec.Encode(user.ID))
		},
	}

	cmd.Flags().StringVar(&opts.secret, "secret", os.Getenv("SECRET_TOKEN"), "Shared token secret")
	cmd.Flags().StringVar(&opts.format, "format", "plain", "Output format: plain or json")

	return cmd
}

func writeToken(w io.Writer, format string, user *model.User, token string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tokenOutput{UserID: user.ID, Username: user.Username, Token: token})
	}
	_, err := fmt.Fprintln(w, token)
	return err
}
