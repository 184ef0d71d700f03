// Package core defines the data model and stage interfaces for markcopy.
// Each stage of a copy operation is a small, testable interface.
package core

import "context"

// FetchResult holds the raw HTML and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	HTML       string
}

// PageInfo describes the page a copy was taken from. Both fields are
// optional; the Output Formatter skips whatever is empty.
type PageInfo struct {
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Heading represents a single heading found in converted Markdown.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Link represents a hyperlink found in converted Markdown.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// CopyStructure holds structural counts parsed from converted Markdown.
type CopyStructure struct {
	Headings   []Heading `json:"headings"`
	Links      []Link    `json:"links"`
	CodeBlocks int       `json:"code_blocks"`
	Tables     int       `json:"tables"`
	Lists      int       `json:"lists"`
}

// CopyJSON is the JSON envelope for a single copy result.
type CopyJSON struct {
	Page      PageInfo      `json:"page"`
	Scope     Scope         `json:"scope"`
	CopiedAt  string        `json:"copied_at"` // ISO8601
	Markdown  string        `json:"markdown"`
	Structure CopyStructure `json:"structure"`
}

// Fetcher retrieves raw HTML from a URL, file path or stdin ("-").
type Fetcher interface {
	Fetch(ctx context.Context, src string) (*FetchResult, error)
}

// Extractor pulls the HTML a copy operation converts out of a document.
type Extractor interface {
	Page(html string) (string, error)
	Element(html, selector string) (string, error)
	Selection(html, selector string) (string, error)
}

// Converter turns an HTML string into Markdown.
type Converter interface {
	Convert(html string) string
}

// Renderer converts Markdown (and page info) into a final output format.
type Renderer interface {
	Render(markdown string, page PageInfo) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md").
	Extension() string
}

// ClipboardSink receives the final Markdown of a copy operation.
type ClipboardSink interface {
	Copy(text string) error
}
