// Package crawl discovers the same-host pages behind a start URL for
// `markcopy page --all`. It reads sitemap.xml when the site has one and
// otherwise follows links breadth-first.
package crawl

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/markcopy/core"
)

// DefaultMaxPages bounds a crawl when no limit is given.
const DefaultMaxPages = 100

type sitemapURL struct {
	Loc string `xml:"loc"`
}

type sitemap struct {
	URLs []sitemapURL `xml:"url"`
}

// Discoverer finds pages to copy.
type Discoverer struct {
	Fetcher  core.Fetcher
	MaxPages int
	Logger   *slog.Logger
}

// New creates a Discoverer. maxPages <= 0 means DefaultMaxPages.
func New(fetcher core.Fetcher, maxPages int, logger *slog.Logger) *Discoverer {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Discoverer{Fetcher: fetcher, MaxPages: maxPages, Logger: logger}
}

// Discover returns up to MaxPages canonical same-host URLs, start first.
func (d *Discoverer) Discover(ctx context.Context, start string) ([]string, error) {
	base, err := url.Parse(start)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("parsing start URL %q: invalid URL", start)
	}

	sitemapLoc := base.Scheme + "://" + base.Host + "/sitemap.xml"
	urls, err := d.fromSitemap(ctx, sitemapLoc, Canonical(start), base.Host)
	if err == nil && len(urls) > 1 {
		d.Logger.Debug("using sitemap", "url", sitemapLoc, "pages", len(urls))
		return urls, nil
	}
	if err != nil {
		d.Logger.Debug("sitemap unavailable, following links", "url", sitemapLoc, "error", err)
	}
	return d.fromLinks(ctx, start, base.Host)
}

func (d *Discoverer) fromSitemap(ctx context.Context, loc, start, host string) ([]string, error) {
	result, err := d.Fetcher.Fetch(ctx, loc)
	if err != nil {
		return nil, err
	}

	var sm sitemap
	if err := xml.Unmarshal([]byte(result.HTML), &sm); err != nil {
		return nil, fmt.Errorf("decoding sitemap: %w", err)
	}

	f := newFrontier()
	f.push(start)
	for _, u := range sm.URLs {
		if f.size() >= d.MaxPages {
			break
		}
		loc := strings.TrimSpace(u.Loc)
		if SameHost(loc, host) && !IsAsset(loc) {
			f.push(Canonical(loc))
		}
	}
	return f.all(), nil
}

func (d *Discoverer) fromLinks(ctx context.Context, start, host string) ([]string, error) {
	f := newFrontier()
	f.push(Canonical(start))

	for !f.empty() && f.size() < d.MaxPages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		current := f.pop()

		result, err := d.Fetcher.Fetch(ctx, current)
		if err != nil {
			d.Logger.Warn("skipping page during discovery", "url", current, "error", err)
			continue
		}

		links, err := Links(result.HTML, current)
		if err != nil {
			continue
		}
		for _, link := range links {
			if f.size() >= d.MaxPages {
				break
			}
			if SameHost(link, host) && !IsAsset(link) {
				f.push(Canonical(link))
			}
		}
	}

	return f.all(), nil
}

// Links returns the absolute http(s) targets of every <a href> in html.
func Links(html, pageURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parsing page URL: %w", err)
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return
		}
		if resolved := resolve(href, base); resolved != "" {
			links = append(links, resolved)
		}
	})
	return links, nil
}
