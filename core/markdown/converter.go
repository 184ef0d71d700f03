// Package markdown implements the HTML to Markdown conversion engine.
//
// The tree walk and the standard CommonMark elements (headings, paragraphs,
// lists, blockquotes, strong, horizontal rules) come from html-to-markdown.
// A table of NodeRules is registered ahead of the CommonMark plugin so that
// links, code, tables, images and a handful of inline elements render the
// way markcopy wants. Each rule gets its children already converted, except
// code rules, which read the raw text so nothing inside them is escaped.
package markdown

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/marker"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/gaurav-prasanna/markcopy/core"
	"github.com/gaurav-prasanna/markcopy/core/normalize"
	"golang.org/x/net/html"
)

// Ensure Converter implements core.Converter at compile time.
var _ core.Converter = (*Converter)(nil)

// Converter converts HTML to normalised Markdown. It holds no state between
// calls and is safe for concurrent use.
type Converter struct {
	opts   Options
	extra  []NodeRule
	logger *slog.Logger
}

// Option customises a Converter.
type Option func(*Converter)

// WithRules adds rules that take priority over the built-in table.
func WithRules(rules ...NodeRule) Option {
	return func(c *Converter) {
		c.extra = append(c.extra, rules...)
	}
}

// WithLogger sets the logger used for conversion failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// New creates a Converter for opts.
func New(opts Options, options ...Option) *Converter {
	c := &Converter{opts: opts, logger: slog.Default()}
	for _, o := range options {
		o(c)
	}
	return c
}

// ToMarkdown converts html using settings. Empty input yields "".
func ToMarkdown(html string, settings core.Settings) string {
	return New(OptionsFrom(settings)).Convert(html)
}

// Convert turns html into Markdown and runs it through the text
// normaliser. It never fails: unparseable input produces "".
func (c *Converter) Convert(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	refs := &references{}
	conv := c.build(refs)

	md, err := conv.ConvertString(html)
	if err != nil {
		c.logger.Warn("converting HTML to markdown", "error", err)
		return ""
	}
	return normalize.Normalize(refs.appendTo(md))
}

// build assembles a fresh html-to-markdown converter. Building per call
// keeps reference-link numbering local to one conversion.
func (c *Converter) build(refs *references) *converter.Converter {
	headingStyle := commonmark.HeadingStyleATX
	if c.opts.HeadingStyle == core.HeadingSetext {
		headingStyle = commonmark.HeadingStyleSetext
	}
	bullet := c.opts.BulletListMarker
	if bullet == "" {
		bullet = "-"
	}

	conv := converter.NewConverter(
		converter.WithEscapeMode(converter.EscapeModeSmart),
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle(headingStyle),
				commonmark.WithBulletListMarker(bullet),
				commonmark.WithEmDelimiter(EmDelimiter),
				commonmark.WithStrongDelimiter(StrongDelimiter),
			),
		),
	)

	rules := append(append([]NodeRule{}, c.extra...), customRules(c.opts, refs)...)
	conv.Register.Renderer(dispatch(rules), converter.PriorityEarly)
	conv.Register.TextTransformer(holdAmpersands, converter.PriorityStandard-1)
	conv.Register.TextTransformer(restoreAngles, converter.PriorityLate+1)
	return conv
}

// The base plugin entity-encodes < and > in every text node. Ampersands
// already in the text are parked before that step so that restoreAngles
// only undoes the encoding and a literal "&lt;" in the page survives.
const ampHold = "\uE000"

var angleRestorer = strings.NewReplacer(
	"&lt;", "<",
	// ">" stays a candidate for escaping at the start of a line.
	"&gt;", string(marker.MarkerEscaping)+">",
	ampHold, "&",
)

func holdAmpersands(_ converter.Context, content string) string {
	return strings.ReplaceAll(content, "&", ampHold)
}

func restoreAngles(_ converter.Context, content string) string {
	return angleRestorer.Replace(content)
}

// dispatch renders n with the first matching rule. Nodes no rule claims
// fall through to the CommonMark plugin.
func dispatch(rules []NodeRule) converter.HandleRenderFunc {
	return func(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
		if n.Type != html.ElementNode {
			return converter.RenderTryNext
		}
		rule := first(rules, n)
		if rule == nil {
			return converter.RenderTryNext
		}

		if r, ok := rule.(rawTextRule); ok && r.RawText() {
			w.WriteString(rule.Render(dom.CollectText(n), n))
			return converter.RenderSuccess
		}

		var buf bytes.Buffer
		ctx.RenderChildNodes(ctx, &buf, n)
		w.WriteString(rule.Render(buf.String(), n))
		return converter.RenderSuccess
	}
}
