// Package output writes copy results to disk. Single copies go to an
// explicit path or to a name derived from the page URL; --all copies
// mirror the URL path structure under the output directory.
package output

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// WriteFile writes data to name. Relative names resolve under OutputDir.
func (w *Writer) WriteFile(name string, data []byte) (string, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.OutputDir, name)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// WriteFlat writes data under a flat name derived from rawURL
// (example_com_docs_intro.md).
func (w *Writer) WriteFlat(rawURL string, data []byte, ext string) (string, error) {
	return w.WriteFile(FlatName(rawURL)+ext, data)
}

// WriteMirrored writes data to a path mirroring rawURL's path.
// Example: https://site.com/docs/intro → <dir>/docs/intro.md
func (w *Writer) WriteMirrored(rawURL string, data []byte, ext string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}

	// Cleaning against the root keeps ".." segments inside OutputDir.
	urlPath := path.Clean("/" + parsed.Path)
	if urlPath == "/" {
		urlPath = "/index"
	}
	return w.WriteFile(filepath.FromSlash(strings.TrimPrefix(urlPath, "/"))+ext, data)
}

// FlatName converts a URL into a flat filename.
// Example: https://example.com/docs/intro → example_com_docs_intro
func FlatName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return sanitize(rawURL)
	}

	parts := []string{sanitize(parsed.Host)}
	if p := strings.Trim(parsed.Path, "/"); p != "" {
		for _, seg := range strings.Split(p, "/") {
			parts = append(parts, sanitize(seg))
		}
	}
	return strings.Join(parts, "_")
}

// sanitize replaces non-alphanumeric characters with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
