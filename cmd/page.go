// Package cmd: page command.
// Copies a whole page: fetch → extract → pre-replace → convert → format →
// post-replace → deliver. With --all it discovers the site's pages and
// writes each one to disk.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gaurav-prasanna/markcopy/core"
	"github.com/gaurav-prasanna/markcopy/core/extract"
	"github.com/gaurav-prasanna/markcopy/core/fetch"
	"github.com/gaurav-prasanna/markcopy/core/output"
	"github.com/gaurav-prasanna/markcopy/core/pipeline"
	"github.com/gaurav-prasanna/markcopy/core/render"
	"github.com/gaurav-prasanna/markcopy/crawl"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	pageFlags       copyFlags
	flagAll         bool
	flagMain        bool
	flagMaxPages    int
	flagConcurrency int
	flagOutputDir   string
)

var pageCmd = &cobra.Command{
	Use:   "page <url|file|->",
	Short: "Copy a whole page as Markdown",
	Long: `Page converts the body of a page to Markdown, adds the page title and
source URL, and copies the result to the clipboard.

Examples:
  markcopy page https://example.com/docs/intro
  markcopy page saved.html --url https://example.com/saved --stdout
  curl -s https://example.com | markcopy page - --main
  markcopy page https://example.com --all --output_dir ./out`,
	Args: cobra.ExactArgs(1),
	RunE: runPage,
}

func init() {
	rootCmd.AddCommand(pageCmd)
	addCopyFlags(pageCmd, &pageFlags)

	pageCmd.Flags().BoolVar(&flagMain, "main", false, "Copy only the main content (<main>, <article>) without navigation")
	pageCmd.Flags().BoolVar(&flagAll, "all", false, "Copy every discovered same-host page to disk")
	pageCmd.Flags().IntVar(&flagMaxPages, "max_pages", crawl.DefaultMaxPages, "Page limit for --all")
	pageCmd.Flags().IntVar(&flagConcurrency, "concurrency", 4, "Parallel page fetches for --all")
	pageCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory for --all (default: current directory)")
}

func runPage(cmd *cobra.Command, args []string) error {
	src := args[0]

	s, err := loadSettings(cmd, &pageFlags)
	if err != nil {
		return err
	}
	p := pipeline.New(s, slog.Default())
	extractor := extract.New(flagMain)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if flagAll {
		if !fetch.IsURL(src) {
			return fmt.Errorf("--all requires a URL, got %q", src)
		}
		return runAllPages(ctx, cmd, src, p, extractor)
	}

	doc, err := loadDocument(ctx, cmd, src, &pageFlags)
	if err != nil {
		return err
	}
	md, err := copyPage(p, extractor, doc)
	if err != nil {
		return err
	}
	return deliver(cmd, &pageFlags, md, doc.Page, core.ScopePage)
}

func copyPage(p *pipeline.Pipeline, extractor core.Extractor, doc document) (string, error) {
	content, err := extractor.Page(doc.HTML)
	if err != nil {
		return "", fmt.Errorf("extract: %w", err)
	}
	return p.Page(content, doc.Page, doc.BaseURL)
}

// runAllPages discovers the same-host pages behind start and writes each
// one to a path mirroring its URL. Individual failures are reported and
// counted; they do not stop the run.
func runAllPages(ctx context.Context, cmd *cobra.Command, start string, p *pipeline.Pipeline, extractor core.Extractor) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	var renderer core.Renderer = render.NewMarkdownRenderer()
	if pageFlags.json {
		renderer = render.NewJSONRenderer(core.ScopePage)
	}
	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	fetcher := fetch.New()
	fmt.Fprintf(out, "Discovering pages from %s...\n", start)
	urls, err := crawl.New(fetcher, flagMaxPages, slog.Default()).Discover(ctx, start)
	if err != nil {
		return fmt.Errorf("discovering pages: %w", err)
	}
	fmt.Fprintf(out, "Found %d pages to copy\n", len(urls))

	var errCount atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(flagConcurrency, 1))
	for _, pageURL := range urls {
		g.Go(func() error {
			path, err := copyToDisk(gctx, pageURL, fetcher, p, extractor, renderer, writer)
			if err != nil {
				fmt.Fprintf(errOut, "  ✗ %s: %v\n", pageURL, err)
				errCount.Add(1)
				return nil
			}
			fmt.Fprintf(out, "  ✓ Written: %s\n", path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if n := errCount.Load(); n > 0 {
		fmt.Fprintf(errOut, "\n%d/%d pages failed\n", n, len(urls))
	}
	return nil
}

func copyToDisk(
	ctx context.Context,
	pageURL string,
	fetcher core.Fetcher,
	p *pipeline.Pipeline,
	extractor core.Extractor,
	renderer core.Renderer,
	writer *output.Writer,
) (string, error) {
	result, err := fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	doc := document{
		HTML:    result.HTML,
		Page:    core.PageInfo{Title: extract.Title(result.HTML), URL: result.URL},
		BaseURL: extract.BaseURL(result.HTML, result.URL),
	}

	md, err := copyPage(p, extractor, doc)
	if err != nil {
		return "", err
	}
	data, err := renderer.Render(md, doc.Page)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return writer.WriteMirrored(pageURL, data, renderer.Extension())
}
