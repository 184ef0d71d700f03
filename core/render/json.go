// Package render: JSON renderer.
// Wraps a finished copy in a JSON envelope with page info and the
// structure (headings, links, code blocks, tables, lists) found in it.
package render

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gaurav-prasanna/markcopy/core"
)

// JSONRenderer produces a structured JSON envelope for a copy.
type JSONRenderer struct {
	Scope core.Scope
	now   func() time.Time
}

// NewJSONRenderer creates a JSONRenderer for copies of the given scope.
func NewJSONRenderer(scope core.Scope) *JSONRenderer {
	return &JSONRenderer{Scope: scope, now: time.Now}
}

// Render converts Markdown and page info into the JSON envelope.
func (r *JSONRenderer) Render(markdown string, page core.PageInfo) ([]byte, error) {
	copied := core.CopyJSON{
		Page:     page,
		Scope:    r.Scope,
		CopiedAt: r.now().UTC().Format(time.RFC3339),
		Markdown: markdown,
		Structure: core.CopyStructure{
			Headings:   extractHeadings(markdown),
			Links:      extractLinks(markdown),
			CodeBlocks: countCodeBlocks(markdown),
			Tables:     countTables(markdown),
			Lists:      countLists(markdown),
		},
	}

	data, err := json.MarshalIndent(copied, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

// --- Markdown parsing helpers ---

var headingRegex = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)

func extractHeadings(md string) []core.Heading {
	matches := headingRegex.FindAllStringSubmatch(md, -1)
	headings := make([]core.Heading, 0, len(matches))
	for _, m := range matches {
		headings = append(headings, core.Heading{
			Level: len(m[1]),
			Text:  strings.TrimSpace(m[2]),
		})
	}
	return headings
}

// linkRegex matches inline [text](url) and autolinks <scheme://...>.
// Image syntax is excluded.
var linkRegex = regexp.MustCompile(`(?:^|[^!])\[([^\]]*)\]\(([^)\s]+)[^)]*\)|<([a-z][a-z0-9+.-]*:[^>\s]+)>`)

func extractLinks(md string) []core.Link {
	matches := linkRegex.FindAllStringSubmatch(md, -1)
	links := make([]core.Link, 0, len(matches))
	for _, m := range matches {
		if m[3] != "" {
			links = append(links, core.Link{Text: m[3], Href: m[3]})
			continue
		}
		links = append(links, core.Link{Text: m[1], Href: m[2]})
	}
	return links
}

// countCodeBlocks counts fenced code blocks (``` delimited).
func countCodeBlocks(md string) int {
	return strings.Count(md, "```") / 2
}

// tableRowRegex matches separator rows such as | --- | :-: |.
var tableRowRegex = regexp.MustCompile(`(?m)^\|[-:| ]+\|$`)

// countTables counts runs of consecutive pipe rows holding at least one
// separator row. A thead followed by a tbody yields two separators in one
// run and still counts once.
func countTables(md string) int {
	count := 0
	counted := false
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") {
			counted = false
			continue
		}
		if !counted && tableRowRegex.MatchString(line) {
			count++
			counted = true
		}
	}
	return count
}

// listItemRegex matches list items starting with -, *, + or 1.
var listItemRegex = regexp.MustCompile(`(?m)^[ \t]*(?:[-*+]|\d+\.)[ \t]`)

func countLists(md string) int {
	return len(listItemRegex.FindAllString(md, -1))
}
