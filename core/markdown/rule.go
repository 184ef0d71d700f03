package markdown

import (
	"slices"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/JohannesKaufmann/html-to-markdown/v2/marker"
	"golang.org/x/net/html"
)

// NodeRule maps one category of DOM node to Markdown. Render receives the
// node's children already converted to Markdown. That content may still
// carry escape markers; they are resolved once the whole document is
// rendered, so compare against PlainText(content) rather than content.
type NodeRule interface {
	Matches(n *html.Node) bool
	Render(content string, n *html.Node) string
}

// Rule is a NodeRule selected by tag name, optionally narrowed by Filter.
// With Text set, Replace gets the node's raw text instead of converted
// children.
type Rule struct {
	Name    string
	Tags    []string
	Filter  func(n *html.Node) bool
	Replace func(content string, n *html.Node) string
	Text    bool
}

// Matches reports whether n is an element named in Tags that passes Filter.
func (r Rule) Matches(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if len(r.Tags) > 0 && !slices.Contains(r.Tags, dom.NodeName(n)) {
		return false
	}
	return r.Filter == nil || r.Filter(n)
}

// Render applies the rule's replacement.
func (r Rule) Render(content string, n *html.Node) string {
	return r.Replace(content, n)
}

// RawText reports whether the rule wants the node's raw text.
func (r Rule) RawText() bool {
	return r.Text
}

// rawTextRule is implemented by rules that render from raw text.
type rawTextRule interface {
	RawText() bool
}

// PlainText strips escape markers from rendered content.
func PlainText(content string) string {
	return strings.ReplaceAll(content, string(marker.MarkerEscaping), "")
}

// RuleFunc adapts a plain match/render pair into a NodeRule.
type RuleFunc struct {
	Match func(n *html.Node) bool
	Func  func(content string, n *html.Node) string
}

func (f RuleFunc) Matches(n *html.Node) bool                 { return f.Match(n) }
func (f RuleFunc) Render(content string, n *html.Node) string { return f.Func(content, n) }

// first returns the first rule in rules matching n, or nil.
func first(rules []NodeRule, n *html.Node) NodeRule {
	for _, r := range rules {
		if r.Matches(n) {
			return r
		}
	}
	return nil
}

func isTag(n *html.Node, name string) bool {
	return n != nil && n.Type == html.ElementNode && dom.NodeName(n) == name
}

// prevElement skips whitespace-only text and comments when walking back.
func prevElement(n *html.Node) *html.Node {
	for p := n.PrevSibling; p != nil; p = p.PrevSibling {
		if p.Type == html.ElementNode {
			return p
		}
		if p.Type == html.TextNode && strings.TrimSpace(p.Data) != "" {
			return p
		}
	}
	return nil
}

func childElements(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}
