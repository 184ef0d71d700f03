package markdown

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gaurav-prasanna/markcopy/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

// find parses src and returns the i-th element matching selector.
func find(t *testing.T, src, selector string, i int) *html.Node {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	require.NoError(t, err)
	sel := doc.Find(selector)
	require.Greater(t, sel.Length(), i, "selector %q", selector)
	return sel.Get(i)
}

func ruleName(t *testing.T, n *html.Node) string {
	t.Helper()
	r := first(customRules(Options{}, &references{}), n)
	if r == nil {
		return ""
	}
	rule, ok := r.(Rule)
	require.True(t, ok)
	return rule.Name
}

func TestRulePriority(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		src      string
		selector string
		want     string
	}{
		{"code alone in pre is the block body", "<pre><code>x</code></pre>", "code", "codeBlockBody"},
		{"code next to text in pre is inline", "<pre>a<code>x</code></pre>", "code", "inlineCode"},
		{"code in paragraph is inline", "<p><code>x</code></p>", "code", "inlineCode"},
		{"kbd is inline code", "<p><kbd>Ctrl</kbd></p>", "kbd", "inlineCode"},
		{"link with href", `<a href="/x">x</a>`, "a", "smartLink"},
		{"anchor without href keeps its text", `<a name="top">x</a>`, "a", "anchorText"},
		{"anchor with empty href keeps its text", `<a href="">x</a>`, "a", "anchorText"},
		{"cite is emphasis", "<cite>x</cite>", "cite", "emphasis"},
		{"paragraph falls through", "<p>x</p>", "p", ""},
		{"heading falls through", "<h2>x</h2>", "h2", ""},
		{"script is removed", "<body><script>x()</script></body>", "script", "removeUnwanted"},
		{"tfoot passes through", "<table><tfoot><tr><td>1</td></tr></tfoot></table>", "tfoot", "tableSection"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ruleName(t, find(t, tc.src, tc.selector, 0)))
		})
	}
}

func TestSimpleRules(t *testing.T) {
	t.Parallel()

	rules := customRules(Options{}, &references{})
	render := func(src, selector, content string) string {
		n := find(t, src, selector, 0)
		r := first(rules, n)
		require.NotNil(t, r)
		return r.Render(content, n)
	}

	assert.Equal(t, "^2^", render("<sup>2</sup>", "sup", "2"))
	assert.Equal(t, "~2~", render("<sub>2</sub>", "sub", "2"))
	assert.Equal(t, "\n", render("<p>a<br>b</p>", "br", "ignored"))
	assert.Equal(t, "*word*", render("<em>word</em>", "em", "word"))
	assert.Equal(t, "", render("<i> </i>", "i", "  "))
	assert.Equal(t, "`x`", render("<p><code>x</code></p>", "code", "x"))
	assert.Equal(t, "", render("<p><code></code></p>", "code", ""))
	assert.Equal(t, "text", render("<span>text</span>", "span", "text"))
	assert.Equal(t, "text", render(`<font color="red">text</font>`, "font", "text"))
	assert.Equal(t, "text\n", render("<div>text</div>", "div", "text"))
	assert.Equal(t, "text", render(`<a href="">text</a>`, "a", "text"))
	assert.Equal(t, "", render("<table><colgroup><col></colgroup></table>", "colgroup", "x"))
	assert.Equal(t, "\n\nrows\n\n", render("<table><tr><td>1</td></tr></table>", "table", "rows"))
	assert.Equal(t, "", render(`<head><meta charset="utf-8"></head>`, "meta", ""))
}

func TestLinkRule(t *testing.T) {
	t.Parallel()

	const src = `<p>
		<a href="https://x.com">x</a>
		<a href="https://x.com" title="Home">x</a>
		<a href="mailto:me@x.com">me@x.com</a>
	</p>`
	plain := find(t, src, "a", 0)
	titled := find(t, src, "a", 1)
	mail := find(t, src, "a", 2)

	render := linkRule(Options{}, &references{})

	testCases := []struct {
		name    string
		content string
		node    *html.Node
		want    string
	}{
		{"content equals href", "https://x.com", plain, "<https://x.com>"},
		{"mailto with address text", "me@x.com", mail, "<me@x.com>"},
		{"empty content", "", plain, ""},
		{"inline", "Example", plain, "[Example](https://x.com)"},
		{"inline with title", "Example", titled, `[Example](https://x.com "Home")`},
		{"mailto with other text", "Mail me", mail, "[Mail me](mailto:me@x.com)"},
		{"escape markers ignored when comparing", "https://x\a.com", plain, "<https://x.com>"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, render(tc.content, tc.node))
		})
	}
}

func TestLinkRuleReferenced(t *testing.T) {
	t.Parallel()

	const src = `<p><a href="https://a.com">A</a><a href="https://b.com" title="Bee">B</a></p>`
	refs := &references{}
	render := linkRule(Options{LinkStyle: core.LinkReferenced}, refs)

	assert.Equal(t, "[A][1]", render("A", find(t, src, "a", 0)))
	assert.Equal(t, "[B][2]", render("B", find(t, src, "a", 1)))
	assert.Equal(t, "body\n\n[1]: https://a.com\n[2]: https://b.com \"Bee\"", refs.appendTo("body"))
}

func TestReferencesEmpty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "body", (&references{}).appendTo("body"))
}

func TestCodeBlockRule(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		src     string
		opts    Options
		content string
		want    string
	}{
		{"language class", `<pre><code class="hljs language-go">x</code></pre>`, Options{}, "x", "\n```go\nx\n```\n"},
		{"lang class", `<pre><code class="lang-js">x</code></pre>`, Options{}, "x", "\n```js\nx\n```\n"},
		{"no language", `<pre><code>x</code></pre>`, Options{}, "x", "\n```\nx\n```\n"},
		{"no code child", `<pre>x</pre>`, Options{}, "x", "\n```\nx\n```\n"},
		{"trailing newline dropped", `<pre><code>x</code></pre>`, Options{}, "x\n", "\n```\nx\n```\n"},
		{
			"indented",
			`<pre><code class="language-go">a</code></pre>`,
			Options{CodeBlockStyle: core.CodeBlockIndented},
			"a\nb",
			"\n\n    a\n    b\n\n",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			pre := find(t, tc.src, "pre", 0)
			assert.Equal(t, tc.want, codeBlockRule(tc.opts)(tc.content, pre))
		})
	}
}

func TestImageRule(t *testing.T) {
	t.Parallel()

	const src = `<p>
		<img src="../img/a.png" alt="A" title="T">
		<img src="/b.png" alt="B">
		<img src="" alt="empty">
	</p>`
	titled := find(t, src, "img", 0)
	rooted := find(t, src, "img", 1)
	empty := find(t, src, "img", 2)
	base := Options{BaseURL: "https://ex.com/docs/page"}

	assert.Equal(t, `![A](https://ex.com/img/a.png "T")`, imageRule(base)("", titled))
	assert.Equal(t, "![B](https://ex.com/b.png)", imageRule(base)("", rooted))
	assert.Equal(t, "", imageRule(base)("", empty))
	assert.Equal(t, "![B](/b.png)", imageRule(Options{})("", rooted))

	skip := base
	skip.ImageHandling = core.ImagesSkip
	assert.Equal(t, "", imageRule(skip)("", titled))
}

func TestAbsoluteURL(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		base, src, want string
	}{
		{"https://ex.com/a/b", "c.png", "https://ex.com/a/c.png"},
		{"https://ex.com/a/b", "https://cdn.com/x.png", "https://cdn.com/x.png"},
		{"https://ex.com/a/b", "//cdn.com/x.png", "https://cdn.com/x.png"},
		{"", "c.png", "c.png"},
		{"relative/base", "c.png", "c.png"},
		{"https://ex.com/", "%zz", "%zz"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, absoluteURL(tc.base, tc.src), "base %q src %q", tc.base, tc.src)
	}
}

func TestRuleMatches(t *testing.T) {
	t.Parallel()

	p := find(t, "<p class=lead>x</p>", "p", 0)
	onlyLead := Rule{
		Tags:   []string{"p"},
		Filter: func(n *html.Node) bool { return strings.Contains(goquery.NewDocumentFromNode(n).AttrOr("class", ""), "lead") },
	}
	assert.True(t, onlyLead.Matches(p))
	assert.False(t, Rule{Tags: []string{"div"}}.Matches(p))
	assert.False(t, onlyLead.Matches(p.FirstChild), "text nodes never match")
	assert.False(t, onlyLead.Matches(nil))
}

func TestTextRules(t *testing.T) {
	t.Parallel()

	rules := customRules(Options{}, &references{})
	testCases := []struct {
		src, selector string
		want          bool
	}{
		{"<p><code>x</code></p>", "code", true},
		{"<pre><code>x</code></pre>", "pre", true},
		{"<p><em>x</em></p>", "em", false},
		{`<a href="/x">x</a>`, "a", false},
	}
	for _, tc := range testCases {
		r := first(rules, find(t, tc.src, tc.selector, 0))
		require.NotNil(t, r)
		raw, ok := r.(rawTextRule)
		require.True(t, ok)
		assert.Equal(t, tc.want, raw.RawText(), tc.selector)
	}
}

func TestPlainText(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "1. a*b", PlainText("1\a. a\a*b"))
}
