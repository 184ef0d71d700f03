package markdown

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/markcopy/core"
	"golang.org/x/net/html"
)

var langClass = regexp.MustCompile(`(?:language-|lang-)(\w+)`)

// references collects link definitions when links are reference-style.
// One value lives for exactly one Convert call.
type references struct {
	defs []string
}

func (r *references) add(href, title string) int {
	r.defs = append(r.defs, fmt.Sprintf("[%d]: %s%s", len(r.defs)+1, href, titleSuffix(title)))
	return len(r.defs)
}

func (r *references) appendTo(md string) string {
	if len(r.defs) == 0 {
		return md
	}
	return md + "\n\n" + strings.Join(r.defs, "\n")
}

func titleSuffix(title string) string {
	if title == "" {
		return ""
	}
	return ` "` + title + `"`
}

func empty(string, *html.Node) string { return "" }

func passthrough(content string, _ *html.Node) string { return content }

func wrap(left, right string) func(string, *html.Node) string {
	return func(content string, _ *html.Node) string {
		return left + content + right
	}
}

// isCodeBlockChild reports whether n is the only child of a <pre>.
func isCodeBlockChild(n *html.Node) bool {
	return isTag(n.Parent, "pre") && n.PrevSibling == nil && n.NextSibling == nil
}

// customRules returns the rule table in priority order.
func customRules(opts Options, refs *references) []NodeRule {
	return []NodeRule{
		Rule{
			Name:    "removeUnwanted",
			Tags:    []string{"style", "script", "head", "meta", "noscript", "link"},
			Replace: empty,
		},
		Rule{Name: "superscript", Tags: []string{"sup"}, Replace: wrap("^", "^")},
		Rule{Name: "subscript", Tags: []string{"sub"}, Replace: wrap("~", "~")},
		Rule{
			Name:    "lineBreak",
			Tags:    []string{"br"},
			Replace: func(string, *html.Node) string { return "\n" },
		},
		Rule{
			Name: "emphasis",
			Tags: []string{"em", "i", "cite", "var"},
			Replace: func(content string, _ *html.Node) string {
				if strings.TrimSpace(content) == "" {
					return ""
				}
				return EmDelimiter + content + EmDelimiter
			},
		},
		Rule{
			Name:   "inlineCode",
			Tags:   []string{"code", "kbd", "samp", "tt"},
			Filter: func(n *html.Node) bool { return !isCodeBlockChild(n) },
			Text:   true,
			Replace: func(content string, _ *html.Node) string {
				if content == "" {
					return ""
				}
				return "`" + content + "`"
			},
		},
		Rule{
			// The <pre> rule owns the fence; its sole code child is raw text.
			Name:    "codeBlockBody",
			Tags:    []string{"code", "kbd", "samp", "tt"},
			Replace: passthrough,
			Text:    true,
		},
		Rule{
			Name:    "smartLink",
			Tags:    []string{"a"},
			Filter:  func(n *html.Node) bool { return dom.GetAttributeOr(n, "href", "") != "" },
			Replace: linkRule(opts, refs),
		},
		Rule{Name: "anchorText", Tags: []string{"a"}, Replace: passthrough},
		Rule{Name: "passthrough", Tags: []string{"font", "span"}, Replace: passthrough},
		Rule{Name: "div", Tags: []string{"div"}, Replace: wrap("", "\n")},
		Rule{Name: "codeBlock", Tags: []string{"pre"}, Replace: codeBlockRule(opts), Text: true},
		Rule{Name: "colgroup", Tags: []string{"colgroup"}, Replace: empty},
		Rule{Name: "tableCell", Tags: []string{"th", "td"}, Replace: tableCell},
		Rule{Name: "tableRow", Tags: []string{"tr"}, Replace: tableRow},
		Rule{Name: "table", Tags: []string{"table"}, Replace: wrap("\n\n", "\n\n")},
		Rule{Name: "tableSection", Tags: []string{"thead", "tbody", "tfoot"}, Replace: passthrough},
		Rule{Name: "image", Tags: []string{"img"}, Replace: imageRule(opts)},
	}
}

func linkRule(opts Options, refs *references) func(string, *html.Node) string {
	return func(content string, n *html.Node) string {
		href := dom.GetAttributeOr(n, "href", "")
		title := dom.GetAttributeOr(n, "title", "")
		text := PlainText(content)

		switch {
		case text == href:
			return "<" + href + ">"
		case href == "mailto:"+text:
			return "<" + text + ">"
		case content == "":
			return ""
		case opts.LinkStyle == core.LinkReferenced:
			return fmt.Sprintf("[%s][%d]", content, refs.add(href, title))
		default:
			return "[" + content + "](" + href + titleSuffix(title) + ")"
		}
	}
}

// codeLanguage reads a language-X or lang-X class from the first <code>
// inside pre.
func codeLanguage(pre *html.Node) string {
	class := goquery.NewDocumentFromNode(pre).Find("code").First().AttrOr("class", "")
	if m := langClass.FindStringSubmatch(class); m != nil {
		return m[1]
	}
	return ""
}

func codeBlockRule(opts Options) func(string, *html.Node) string {
	return func(content string, n *html.Node) string {
		content = strings.TrimSuffix(content, "\n")
		if opts.CodeBlockStyle == core.CodeBlockIndented {
			lines := strings.Split(content, "\n")
			for i, line := range lines {
				lines[i] = "    " + line
			}
			return "\n\n" + strings.Join(lines, "\n") + "\n\n"
		}
		return "\n```" + codeLanguage(n) + "\n" + content + "\n```\n"
	}
}

func imageRule(opts Options) func(string, *html.Node) string {
	return func(_ string, n *html.Node) string {
		if opts.ImageHandling == core.ImagesSkip {
			return ""
		}
		alt := dom.GetAttributeOr(n, "alt", "")
		src := dom.GetAttributeOr(n, "src", "")
		title := dom.GetAttributeOr(n, "title", "")
		if src == "" {
			return ""
		}
		return "![" + alt + "](" + absoluteURL(opts.BaseURL, src) + titleSuffix(title) + ")"
	}
}

// absoluteURL resolves src against base, falling back to src whenever
// either cannot be parsed or base is not absolute.
func absoluteURL(base, src string) string {
	if base == "" {
		return src
	}
	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return src
	}
	u, err := url.Parse(src)
	if err != nil {
		return src
	}
	return b.ResolveReference(u).String()
}
