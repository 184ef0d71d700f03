// Package pipeline implements the copy operations: page, element,
// selection and link. Each runs
//
//	pre-replacements → conversion → formatting → post-replacements
//
// where the pre phase sees the extracted HTML (or link text) and the post
// phase sees the finished Markdown. Selection and link copies skip the
// title/source formatting.
package pipeline

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gaurav-prasanna/markcopy/core"
	"github.com/gaurav-prasanna/markcopy/core/markdown"
	"github.com/gaurav-prasanna/markcopy/core/render"
	"github.com/gaurav-prasanna/markcopy/core/replace"
)

var (
	// ErrNoContent is returned when a page or element has nothing to copy.
	ErrNoContent = errors.New("no page content found")

	// ErrNoSelection is returned when a selection copy is empty.
	ErrNoSelection = errors.New("no text selected")

	// ErrNoLinkURL is returned when a link copy has no URL.
	ErrNoLinkURL = errors.New("no link URL provided")
)

// Pipeline runs copy operations for one set of Settings.
type Pipeline struct {
	settings core.Settings
	replacer *replace.Replacer
	logger   *slog.Logger
}

// New creates a Pipeline. A nil logger means slog.Default().
func New(settings core.Settings, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		settings: settings.WithDefaults(),
		replacer: replace.New(logger),
		logger:   logger,
	}
}

// Settings returns the settings the pipeline was built with.
func (p *Pipeline) Settings() core.Settings {
	return p.settings
}

// Page copies a whole page. baseURL resolves relative image sources.
func (p *Pipeline) Page(html string, page core.PageInfo, baseURL string) (string, error) {
	return p.formatted(html, page, baseURL, core.ScopePage)
}

// Element copies a single picked element, formatted like a page copy.
func (p *Pipeline) Element(html string, page core.PageInfo, baseURL string) (string, error) {
	return p.formatted(html, page, baseURL, core.ScopePage)
}

// Selection copies a selection without title or source formatting.
func (p *Pipeline) Selection(html, baseURL string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", ErrNoSelection
	}
	html = p.pre(html, core.ScopeSelection)
	md := p.convert(html, baseURL)
	return p.post(md, core.ScopeSelection), nil
}

// Link builds [text](url). Blank text falls back to the URL itself.
func (p *Pipeline) Link(linkURL, text string) (string, error) {
	if linkURL == "" {
		return "", ErrNoLinkURL
	}
	text = strings.TrimSpace(p.pre(text, core.ScopeLink))
	if text == "" {
		text = linkURL
	}
	return p.post("["+text+"]("+linkURL+")", core.ScopeLink), nil
}

func (p *Pipeline) formatted(html string, page core.PageInfo, baseURL string, scope core.Scope) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", ErrNoContent
	}
	html = p.pre(html, scope)
	md := render.FormatOutput(p.convert(html, baseURL), p.settings, page)
	return p.post(md, scope), nil
}

func (p *Pipeline) convert(html, baseURL string) string {
	opts := markdown.OptionsFrom(p.settings)
	opts.BaseURL = baseURL
	return markdown.New(opts, markdown.WithLogger(p.logger)).Convert(html)
}

func (p *Pipeline) pre(text string, scope core.Scope) string {
	group := p.settings.TextReplacements.Pre
	if !group.Enabled {
		return text
	}
	return p.replacer.Apply(text, group.Rules, scope)
}

func (p *Pipeline) post(text string, scope core.Scope) string {
	group := p.settings.TextReplacements.Post
	if !group.Enabled {
		return text
	}
	return p.replacer.Apply(text, group.Rules, scope)
}
