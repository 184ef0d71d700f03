// Package clipboard provides the sinks a finished copy is delivered to.
package clipboard

import (
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/gaurav-prasanna/markcopy/core"
)

var (
	_ core.ClipboardSink = System{}
	_ core.ClipboardSink = (*Writer)(nil)
)

// System writes to the operating system clipboard.
type System struct{}

// Copy places text on the clipboard.
func (System) Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not supported on this system")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}

// Writer "copies" by writing text to W, for --stdout and tests.
type Writer struct {
	W io.Writer
}

// Copy writes text followed by a newline.
func (w *Writer) Copy(text string) error {
	if _, err := io.WriteString(w.W, text+"\n"); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
