package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sakif/snippets/internal/auth"
	sqliteRepo "github.com/sakif/snippets/internal/repository/sqlite"
	"github.com/sakif/snippets/internal/service"
)

var createUserCmd = &cobra.Command{
	Use:   "createuser <username>",
	Short: "Create a username/password account",
	Long: `Create an account directly in the database. The password is read from
--password or, when that is empty, from the first line of stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}

		path, err := dbPath(cmd)
		if err != nil {
			return err
		}
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}
		}

		db, err := sqliteRepo.New(path)
		if err != nil {
			return err
		}
		defer db.Close()

		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
		svc := service.NewAuthService(db, nil, auth.NewPasswordService(), logger)

		user, err := svc.CreateAccount(cmd.Context(), args[0], password)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), green("Created user"), bold(user.Username), faint(user.ID))
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringP("password", "p", "", "account password (prompted when empty)")
	rootCmd.AddCommand(createUserCmd)
}
