// Package extract pulls the HTML that a copy operation converts out of a
// full document: the whole page body, a selection, or a single element.
// It also reads the page title and base URL used for formatting.
package extract

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/gaurav-prasanna/markcopy/core"
)

var _ core.Extractor = (*HTMLExtractor)(nil)

var (
	// ErrInvalidSelector is returned when a CSS selector does not compile.
	ErrInvalidSelector = errors.New("invalid CSS selector")

	// ErrNoMatch is returned when a selector matches nothing.
	ErrNoMatch = errors.New("selector matched no elements")
)

// pageNoise is always stripped from page copies.
var pageNoise = []string{"script", "style", "noscript"}

// mainNoise is additionally stripped in main-content mode. These contribute
// no meaningful content to the page text.
var mainNoise = []string{
	"nav", "footer", "header", "aside",
	"iframe", "svg", "canvas",
	"form", "button", "input", "select", "textarea",
	".sidebar", ".menu", ".navigation", ".ads", ".advertisement",
}

// HTMLExtractor extracts copyable HTML from documents.
type HTMLExtractor struct {
	// MainContent narrows page copies to <main>, <article> or <body> and
	// drops navigation chrome.
	MainContent bool
}

// New creates an HTMLExtractor.
func New(mainContent bool) *HTMLExtractor {
	return &HTMLExtractor{MainContent: mainContent}
}

// Page returns the inner HTML of the page body with scripts and styles
// removed. An empty string means the page has no content.
func (e *HTMLExtractor) Page(html string) (string, error) {
	doc, err := parse(html)
	if err != nil {
		return "", err
	}

	for _, sel := range pageNoise {
		doc.Find(sel).Remove()
	}

	container := doc.Find("body").First()
	if e.MainContent {
		for _, sel := range mainNoise {
			doc.Find(sel).Remove()
		}
		// <main> is the most semantically correct, then <article>, then <body>.
		for _, tag := range []string{"main", "article", "body"} {
			if sel := doc.Find(tag); sel.Length() > 0 {
				container = sel.First()
				break
			}
		}
	}
	if container.Length() == 0 {
		return "", nil
	}

	inner, err := container.Html()
	if err != nil {
		return "", fmt.Errorf("serializing content: %w", err)
	}
	return strings.TrimSpace(inner), nil
}

// Element returns the outer HTML of the first element matching selector.
func (e *HTMLExtractor) Element(html, selector string) (string, error) {
	matcher, err := compile(selector)
	if err != nil {
		return "", err
	}
	doc, err := parse(html)
	if err != nil {
		return "", err
	}

	sel := doc.FindMatcher(matcher).First()
	if sel.Length() == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoMatch, selector)
	}
	out, err := goquery.OuterHtml(sel)
	if err != nil {
		return "", fmt.Errorf("serializing element: %w", err)
	}
	return out, nil
}

// Selection returns the HTML of a selection. With an empty selector the
// whole fragment is the selection; otherwise every match (in document
// order) is concatenated, like the ranges of a multi-range selection.
func (e *HTMLExtractor) Selection(html, selector string) (string, error) {
	doc, err := parse(html)
	if err != nil {
		return "", err
	}

	if selector == "" {
		inner, err := doc.Find("body").First().Html()
		if err != nil {
			return "", fmt.Errorf("serializing selection: %w", err)
		}
		return strings.TrimSpace(inner), nil
	}

	matcher, err := compile(selector)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	var serr error
	doc.FindMatcher(matcher).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		out, err := goquery.OuterHtml(s)
		if err != nil {
			serr = fmt.Errorf("serializing selection: %w", err)
			return false
		}
		b.WriteString(out)
		return true
	})
	if serr != nil {
		return "", serr
	}
	return strings.TrimSpace(b.String()), nil
}

// Title returns the trimmed text of the document's <title>.
func Title(html string) string {
	doc, err := parse(html)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// BaseURL returns the URL relative links in the document resolve against:
// a <base href> resolved against pageURL, or pageURL itself.
func BaseURL(html, pageURL string) string {
	doc, err := parse(html)
	if err != nil {
		return pageURL
	}
	href, ok := doc.Find("base[href]").First().Attr("href")
	if !ok || href == "" {
		return pageURL
	}
	ref, err := url.Parse(href)
	if err != nil {
		return pageURL
	}
	page, err := url.Parse(pageURL)
	if err != nil || pageURL == "" {
		return ref.String()
	}
	return page.ResolveReference(ref).String()
}

// ValidateSelector reports whether selector is usable for Element.
func ValidateSelector(selector string) error {
	_, err := compile(selector)
	return err
}

func compile(selector string) (cascadia.Selector, error) {
	if strings.TrimSpace(selector) == "" {
		return nil, fmt.Errorf("%w: empty selector", ErrInvalidSelector)
	}
	s, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSelector, err)
	}
	return s, nil
}

func parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}
