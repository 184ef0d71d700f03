package markdown

import (
	"strconv"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"golang.org/x/net/html"
)

var alignBorders = map[string]string{
	"left":   ":--",
	"right":  "--:",
	"center": ":-:",
}

// colspan returns how many times a cell's trailing pipe repeats. Missing,
// zero or malformed values count as one.
func colspan(n *html.Node) int {
	span, err := strconv.Atoi(strings.TrimSpace(dom.GetAttributeOr(n, "colspan", "0")))
	if err != nil || span <= 0 {
		return 1
	}
	return span
}

// tableCell formats one th/td. Only the first cell of a row carries the
// leading pipe.
func tableCell(content string, n *html.Node) string {
	prefix := " "
	if prevElement(n) == nil {
		prefix = "| "
	}
	content = strings.ReplaceAll(content, "\n", "")
	return prefix + content + " " + strings.Repeat("|", colspan(n))
}

// borderCell formats the separator segment under one header cell. Each
// segment already starts with a space, so only the first cell adds a pipe.
func borderCell(border string, n *html.Node) string {
	prefix := ""
	if prevElement(n) == nil {
		prefix = "|"
	}
	return prefix + strings.Repeat(" "+border+" |", colspan(n))
}

// isHeadingRow decides whether a separator line goes under tr. The checks
// run in order and the first true one wins.
func isHeadingRow(tr *html.Node) bool {
	parent := tr.Parent
	prev := prevElement(tr)
	switch {
	case isTag(parent, "thead"):
		return true
	case isTag(parent, "tbody") && prevElement(parent) == nil && prev == nil:
		return true
	case prev == nil:
		return true
	case isTag(prev, "colgroup"):
		return true
	}
	return false
}

func tableRow(content string, tr *html.Node) string {
	if !isHeadingRow(tr) {
		return "\n" + content
	}

	var borders strings.Builder
	for _, cell := range childElements(tr) {
		border := "---"
		if b, ok := alignBorders[dom.GetAttributeOr(cell, "align", "")]; ok {
			border = b
		}
		borders.WriteString(borderCell(border, cell))
	}
	if borders.Len() == 0 {
		return "\n" + content
	}
	return "\n" + content + "\n" + borders.String()
}
