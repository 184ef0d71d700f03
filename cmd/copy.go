// Package cmd: shared plumbing for the copy commands (page, element,
// selection, link): settings overrides, source loading and delivery to
// the clipboard, stdout or a file.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gaurav-prasanna/markcopy/core"
	"github.com/gaurav-prasanna/markcopy/core/clipboard"
	"github.com/gaurav-prasanna/markcopy/core/extract"
	"github.com/gaurav-prasanna/markcopy/core/fetch"
	"github.com/gaurav-prasanna/markcopy/core/output"
	"github.com/gaurav-prasanna/markcopy/core/render"
	"github.com/gaurav-prasanna/markcopy/core/settings"
	"github.com/spf13/cobra"
)

// copyFlags are the per-command flags every copy command shares.
type copyFlags struct {
	headingStyle   string
	bulletMarker   string
	codeBlockStyle string
	linkStyle      string
	imageHandling  string
	noTitle        bool
	noSource       bool

	pageURL string
	stdout  bool
	json    bool
	output  string
}

func addCopyFlags(cmd *cobra.Command, f *copyFlags) {
	// Settings overrides, applied only when set.
	cmd.Flags().StringVar(&f.headingStyle, "heading-style", "", "Heading style: atx or setext")
	cmd.Flags().StringVar(&f.bulletMarker, "bullet", "", "Bullet list marker: -, * or +")
	cmd.Flags().StringVar(&f.codeBlockStyle, "code-style", "", "Code block style: fenced or indented")
	cmd.Flags().StringVar(&f.linkStyle, "link-style", "", "Link style: inlined or referenced")
	cmd.Flags().StringVar(&f.imageHandling, "images", "", "Image handling: keep or skip")
	cmd.Flags().BoolVar(&f.noTitle, "no-title", false, "Do not prepend the page title")
	cmd.Flags().BoolVar(&f.noSource, "no-source", false, "Do not append the source URL")

	// Source and destination.
	cmd.Flags().StringVar(&f.pageURL, "url", "", "Page URL to report and resolve images against (default: the fetched URL)")
	cmd.Flags().BoolVar(&f.stdout, "stdout", false, "Print to stdout instead of copying to the clipboard")
	cmd.Flags().BoolVar(&f.json, "json", false, "Emit a JSON envelope with the Markdown and its structure")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Write to this file (or directory) instead of the clipboard")
}

// loadSettings reads the stored settings and applies any override flags.
// A corrupt settings file falls back to defaults with a warning.
func loadSettings(cmd *cobra.Command, f *copyFlags) (core.Settings, error) {
	s, err := settings.NewStore(flagConfig).Load()
	if err != nil {
		slog.Warn("failed to load settings, using defaults", "error", err)
	}

	overrides := []struct{ flag, key, value string }{
		{"heading-style", "headingStyle", f.headingStyle},
		{"bullet", "bulletListMarker", f.bulletMarker},
		{"code-style", "codeBlockStyle", f.codeBlockStyle},
		{"link-style", "linkStyle", f.linkStyle},
		{"images", "imageHandling", f.imageHandling},
	}
	for _, o := range overrides {
		if !cmd.Flags().Changed(o.flag) {
			continue
		}
		if err := applySetting(&s, o.key, o.value); err != nil {
			return s, fmt.Errorf("--%s: %w", o.flag, err)
		}
	}
	if f.noTitle {
		s.IncludePageTitle = false
	}
	if f.noSource {
		s.IncludeSourceURL = false
	}
	return s, nil
}

// document is a loaded source page.
type document struct {
	HTML    string
	Page    core.PageInfo
	BaseURL string
}

// loadDocument fetches src (URL, file or "-" for the command's stdin) and
// reads its title and base URL. --url overrides the URL reported for the
// page.
func loadDocument(ctx context.Context, cmd *cobra.Command, src string, f *copyFlags) (document, error) {
	fetcher := fetch.For(src)
	if ff, ok := fetcher.(*fetch.FileFetcher); ok {
		ff.Stdin = cmd.InOrStdin()
	}
	result, err := fetcher.Fetch(ctx, src)
	if err != nil {
		return document{}, fmt.Errorf("fetch: %w", err)
	}

	pageURL := result.URL
	if f.pageURL != "" {
		pageURL = f.pageURL
	}
	if !fetch.IsURL(pageURL) {
		pageURL = ""
	}
	return document{
		HTML:    result.HTML,
		Page:    core.PageInfo{Title: extract.Title(result.HTML), URL: pageURL},
		BaseURL: extract.BaseURL(result.HTML, pageURL),
	}, nil
}

// deliver renders markdown and sends it where the flags say.
func deliver(cmd *cobra.Command, f *copyFlags, markdown string, page core.PageInfo, scope core.Scope) error {
	var renderer core.Renderer = render.NewMarkdownRenderer()
	if f.json {
		renderer = render.NewJSONRenderer(scope)
	}
	data, err := renderer.Render(markdown, page)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if f.output != "" {
		path, err := writeOutput(f.output, page.URL, data, renderer.Extension())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s\n", path)
		return nil
	}

	var sink core.ClipboardSink = clipboard.System{}
	if f.stdout || f.json {
		sink = &clipboard.Writer{W: cmd.OutOrStdout()}
	}
	if err := sink.Copy(string(data)); err != nil {
		return err
	}
	if _, ok := sink.(clipboard.System); ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Copied %d chars to clipboard\n", utf8.RuneCount(data))
	}
	return nil
}

// writeOutput writes data to target. A directory target (existing, or
// ending in a separator) gets a file named after pageURL.
func writeOutput(target, pageURL string, data []byte, ext string) (string, error) {
	info, err := os.Stat(target)
	isDir := (err == nil && info.IsDir()) || strings.HasSuffix(target, string(os.PathSeparator))
	if !isDir {
		writer, err := output.New(filepath.Dir(target))
		if err != nil {
			return "", fmt.Errorf("initializing output writer: %w", err)
		}
		return writer.WriteFile(filepath.Base(target), data)
	}

	writer, err := output.New(target)
	if err != nil {
		return "", fmt.Errorf("initializing output writer: %w", err)
	}
	if pageURL == "" {
		return writer.WriteFile("copy"+ext, data)
	}
	return writer.WriteFlat(pageURL, data, ext)
}
