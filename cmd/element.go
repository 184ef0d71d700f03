// Package cmd: element command.
// Copies one element, chosen with --selector or interactively through the
// picker: hover and click events arrive as lines on stdin.
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gaurav-prasanna/markcopy/core"
	"github.com/gaurav-prasanna/markcopy/core/extract"
	"github.com/gaurav-prasanna/markcopy/core/picker"
	"github.com/gaurav-prasanna/markcopy/core/pipeline"
	"github.com/spf13/cobra"
)

// errPickCancelled is returned when the picker is closed without a pick.
var errPickCancelled = errors.New("element picker cancelled")

var (
	elementFlags   copyFlags
	flagElementSel string
)

var elementCmd = &cobra.Command{
	Use:   "element <url|file>",
	Short: "Copy a single element as Markdown",
	Long: `Element copies one element of a page, formatted like a page copy.

Pass --selector to pick directly. Without it the picker starts and reads
commands from stdin, one per line:

  hover <selector>   highlight the element matching selector
  click [selector]   pick selector (or the highlighted element)
  <selector>         same as click <selector>
  esc                cancel

Examples:
  markcopy element https://example.com --selector "article table"
  markcopy element page.html`,
	Args: cobra.ExactArgs(1),
	RunE: runElement,
}

func init() {
	rootCmd.AddCommand(elementCmd)
	addCopyFlags(elementCmd, &elementFlags)
	elementCmd.Flags().StringVarP(&flagElementSel, "selector", "s", "", "CSS selector of the element to copy")
}

func runElement(cmd *cobra.Command, args []string) error {
	src := args[0]
	if src == "-" && flagElementSel == "" {
		return fmt.Errorf("reading HTML from stdin requires --selector")
	}

	s, err := loadSettings(cmd, &elementFlags)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	doc, err := loadDocument(ctx, cmd, src, &elementFlags)
	if err != nil {
		return err
	}

	extractor := extract.New(false)
	var html string
	if flagElementSel != "" {
		html, err = extractor.Element(doc.HTML, flagElementSel)
		if err != nil {
			return err
		}
	} else {
		html, err = pickElement(cmd.InOrStdin(), cmd.ErrOrStderr(), doc.HTML, extractor)
		if err != nil {
			return err
		}
	}

	md, err := pipeline.New(s, slog.Default()).Element(html, doc.Page, doc.BaseURL)
	if err != nil {
		return err
	}
	return deliver(cmd, &elementFlags, md, doc.Page, core.ScopePage)
}

// pickElement runs the picker over line commands from in until an
// element is picked or the picker is closed. Bad selectors and misses are
// reported and picking continues.
func pickElement(in io.Reader, out io.Writer, html string, extractor *extract.HTMLExtractor) (string, error) {
	var p picker.Picker
	p.Handle(picker.Event{Kind: picker.Toggle})
	fmt.Fprintln(out, "Picking: hover <selector>, click [selector], esc to cancel")

	scanner := bufio.NewScanner(in)
	for p.State() == picker.Picking && scanner.Scan() {
		ev, ok := parsePickEvent(scanner.Text())
		if !ok {
			continue
		}

		if ev.Kind == picker.Hover {
			if err := extract.ValidateSelector(ev.Target); err != nil {
				fmt.Fprintf(out, "  ✗ %v\n", err)
				continue
			}
		}

		target, picked := p.Handle(ev)
		if !picked {
			switch ev.Kind {
			case picker.Hover:
				fmt.Fprintf(out, "  hovering %s\n", p.Hovered())
			case picker.Click:
				fmt.Fprintln(out, "  ✗ nothing hovered to pick")
				p.Handle(picker.Event{Kind: picker.Toggle})
			}
			continue
		}

		element, err := extractor.Element(html, target)
		if err != nil {
			fmt.Fprintf(out, "  ✗ %v\n", err)
			p.Handle(picker.Event{Kind: picker.Toggle})
			continue
		}
		return element, nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading picker input: %w", err)
	}
	return "", errPickCancelled
}

// parsePickEvent turns one input line into a picker event.
func parsePickEvent(line string) (picker.Event, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return picker.Event{}, false
	}
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(verb) {
	case "esc", "escape", "q", "quit":
		return picker.Event{Kind: picker.Escape}, true
	case "toggle":
		return picker.Event{Kind: picker.Toggle}, true
	case "hover":
		if rest == "" {
			return picker.Event{}, false
		}
		return picker.Event{Kind: picker.Hover, Target: rest}, true
	case "click":
		return picker.Event{Kind: picker.Click, Target: rest}, true
	}
	return picker.Event{Kind: picker.Click, Target: line}, true
}
