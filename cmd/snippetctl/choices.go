package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sakif/snippets/internal/highlight"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the languages a snippet can use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printChoices(cmd.OutOrStdout(), highlight.Default().Languages(), highlight.DefaultLanguage)
		return nil
	},
}

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List the highlighting styles a snippet can use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printChoices(cmd.OutOrStdout(), highlight.Default().Styles(), highlight.DefaultStyle)
		return nil
	},
}

// printChoices writes one "id  name" line per choice and marks the default.
func printChoices(w io.Writer, choices []highlight.Choice, def string) {
	width := 0
	for _, c := range choices {
		width = max(width, len(c.ID))
	}

	for _, c := range choices {
		line := fmt.Sprintf("  %-*s  %s", width, c.ID, c.Name)
		if c.ID == def {
			fmt.Fprintln(w, bold(line), green("(default)"))
			continue
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, faint(fmt.Sprintf("%d available", len(choices))))
}

func init() {
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(stylesCmd)
}
