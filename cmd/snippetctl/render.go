package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/snippets/internal/highlight"
)

var renderCmd = &cobra.Command{
	Use:   "render <file|->",
	Short: "Render a source file as a standalone highlighted HTML document",
	Long: `Render a source file exactly as the server renders a saved snippet.
Use "-" to read from stdin. The document is written to stdout unless --out is set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		language, _ := cmd.Flags().GetString("language")
		style, _ := cmd.Flags().GetString("style")
		title, _ := cmd.Flags().GetString("title")
		linenos, _ := cmd.Flags().GetBool("linenos")
		out, _ := cmd.Flags().GetString("out")

		code, err := readSource(cmd, args[0])
		if err != nil {
			return err
		}

		doc, err := highlight.Default().Render(highlight.Options{
			Code:        code,
			Language:    language,
			Style:       style,
			Title:       title,
			LineNumbers: linenos,
		})
		if err != nil {
			return fmt.Errorf("render failed: %w (see `snippetctl languages` and `snippetctl styles`)", err)
		}

		if out == "" {
			_, err = io.WriteString(cmd.OutOrStdout(), doc)
			return err
		}
		if err := os.WriteFile(out, []byte(doc), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), green("Wrote"), out)
		return nil
	},
}

func readSource(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(b), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(b), nil
}

func init() {
	renderCmd.Flags().StringP("language", "l", highlight.DefaultLanguage, "language id")
	renderCmd.Flags().StringP("style", "s", highlight.DefaultStyle, "style id")
	renderCmd.Flags().StringP("title", "t", "", "document title")
	renderCmd.Flags().BoolP("linenos", "n", false, "show line numbers")
	renderCmd.Flags().StringP("out", "o", "", "write to this file instead of stdout")
	rootCmd.AddCommand(renderCmd)
}
