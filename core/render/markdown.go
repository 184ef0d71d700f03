// Package render provides output renderers for copy results.
// This file implements the Markdown renderer, which applies the page title
// heading and source footer configured in Settings.
package render

import (
	"github.com/gaurav-prasanna/markcopy/core"
)

// FormatOutput prepends a "# title" heading and appends a "Source:" footer
// to markdown, each only when enabled in settings and present in page.
func FormatOutput(markdown string, settings core.Settings, page core.PageInfo) string {
	result := markdown

	if settings.IncludePageTitle && page.Title != "" {
		result = "# " + page.Title + "\n\n" + result
	}

	if settings.IncludeSourceURL && page.URL != "" {
		if len(result) == 0 || result[len(result)-1] != '\n' {
			result += "\n"
		}
		result += "\n---\nSource: " + page.URL
	}

	return result
}

// MarkdownRenderer writes the finished Markdown as-is. Formatting and
// replacements have already been applied by the copy pipeline.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render returns the Markdown as bytes (passthrough).
func (r *MarkdownRenderer) Render(markdown string, _ core.PageInfo) ([]byte, error) {
	return []byte(markdown), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
