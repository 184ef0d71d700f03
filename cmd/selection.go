// Package cmd: selection command.
// Copies a selection without title or source. The selection is either the
// whole input fragment or every element matching --selector.
package cmd

import (
	"context"
	"log/slog"

	"github.com/gaurav-prasanna/markcopy/core"
	"github.com/gaurav-prasanna/markcopy/core/extract"
	"github.com/gaurav-prasanna/markcopy/core/pipeline"
	"github.com/spf13/cobra"
)

var (
	selectionFlags copyFlags
	flagSelectSel  string
)

var selectionCmd = &cobra.Command{
	Use:   "selection <url|file|->",
	Short: "Copy a selection as Markdown",
	Long: `Selection converts an HTML fragment (or the parts of a page matching
--selector) to Markdown without adding the page title or source URL.

Examples:
  pbpaste | markcopy selection - --stdout
  markcopy selection https://example.com --selector "p.intro, pre"`,
	Args: cobra.ExactArgs(1),
	RunE: runSelection,
}

func init() {
	rootCmd.AddCommand(selectionCmd)
	addCopyFlags(selectionCmd, &selectionFlags)
	selectionCmd.Flags().StringVarP(&flagSelectSel, "selector", "s", "", "CSS selector; every match joins the selection")
}

func runSelection(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd, &selectionFlags)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	doc, err := loadDocument(ctx, cmd, args[0], &selectionFlags)
	if err != nil {
		return err
	}

	html, err := extract.New(false).Selection(doc.HTML, flagSelectSel)
	if err != nil {
		return err
	}
	md, err := pipeline.New(s, slog.Default()).Selection(html, doc.BaseURL)
	if err != nil {
		return err
	}
	return deliver(cmd, &selectionFlags, md, doc.Page, core.ScopeSelection)
}
