// Package cmd implements the CLI commands for markcopy using Cobra.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "markcopy",
	Short: "markcopy: copy web pages, selections and links as Markdown",
	Long: `markcopy converts HTML into clean Markdown and puts it on the clipboard.

It copies a whole page, a selection, a single picked element or a link,
applying your text replacement rules before and after conversion.

Usage:
  markcopy page <url|file|-> [flags]
  markcopy selection <url|file|-> [flags]
  markcopy element <url|file> [--selector css] [flags]
  markcopy link <url> [text]`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		slog.SetDefault(setupLogger(flagVerbose))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Settings file (default: $XDG_CONFIG_HOME/markcopy/settings.json)")
}

// setupLogger creates a structured logger based on verbosity setting.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
