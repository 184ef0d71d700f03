// Package cmd: link command.
// Copies a link as [text](url). Blank text falls back to the URL.
package cmd

import (
	"log/slog"
	"strings"

	"github.com/gaurav-prasanna/markcopy/core"
	"github.com/gaurav-prasanna/markcopy/core/pipeline"
	"github.com/spf13/cobra"
)

var linkFlags copyFlags

var linkCmd = &cobra.Command{
	Use:   "link <url> [text...]",
	Short: "Copy a link as Markdown",
	Long: `Link copies [text](url) to the clipboard after applying the link-scoped
text replacement rules to the text.

Examples:
  markcopy link https://go.dev "The Go Programming Language"
  markcopy link https://go.dev --stdout`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLink,
}

func init() {
	rootCmd.AddCommand(linkCmd)
	addCopyFlags(linkCmd, &linkFlags)
}

func runLink(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd, &linkFlags)
	if err != nil {
		return err
	}
	linkURL := strings.TrimSpace(args[0])
	text := strings.Join(args[1:], " ")

	md, err := pipeline.New(s, slog.Default()).Link(linkURL, text)
	if err != nil {
		return err
	}
	return deliver(cmd, &linkFlags, md, core.PageInfo{URL: linkURL}, core.ScopeLink)
}
