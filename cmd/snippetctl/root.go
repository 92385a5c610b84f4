package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sakif/snippets/internal/config"
)

var (
	faint = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:          "snippetctl",
	Short:        "Manage the snippet store from the command line",
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (default: $DB_PATH or "+config.DefaultDBPath+")")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// dbPath resolves the --db flag, falling back to the server's configuration.
func dbPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return cfg.DBPath, nil
}
