// Package normalize cleans up rendered Markdown: smart punctuation is
// folded to ASCII, stray whitespace and escaped line breaks are collapsed,
// and HTML comment remnants are dropped.
package normalize

import (
	"regexp"
	"strings"
)

// space is wider than RE2's \s: it also covers NBSP, BOM and the Unicode
// space separators that show up in copied web text.
const space = `[\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]`

var punctuation = strings.NewReplacer(
	"\u2018", "'", "\u2019", "'", "\u00b4", "'",
	"\u201c", `"`, "\u201d", `"`, "\u2033", `"`,
	"\u2212", "-", "\u2022", "-", "\u00b7", "-", "\u25aa", "-",
	"\u2013", "--", "\u2015", "--",
	"\u2014", "---",
	"\u2026", "...",
)

type step struct {
	re   *regexp.Regexp
	with string
}

// steps run in order after punctuation folding.
var steps = []step{
	{regexp.MustCompile(` +\n`), "\n"},
	{regexp.MustCompile(space + `*\\\n`), "\\\n"},
	{regexp.MustCompile(space + `*\\\n` + space + `*\\\n`), "\n\n"},
	{regexp.MustCompile(space + `*\\\n\n`), "\n\n"},
	{regexp.MustCompile(`\n-\n`), "\n"},
	{regexp.MustCompile(`\n\n` + space + `*\\\n`), "\n\n"},
	{regexp.MustCompile(`\n\n\n*`), "\n\n"},
	{regexp.MustCompile(`(?m) +$`), ""},
	{regexp.MustCompile(`(?s)<!--.*?-->`), ""},
}

var (
	leading  = regexp.MustCompile(`^` + space + `+`)
	trailing = regexp.MustCompile(`(?:` + space + `|\\)+$`)
)

// Normalize returns the cleaned form of markdown. The pass is repeated
// until it no longer changes the text, so Normalize(Normalize(x)) equals
// Normalize(x) even when removing a comment exposes new blank-line runs.
func Normalize(markdown string) string {
	if markdown == "" {
		return ""
	}
	out := pass(markdown)
	for {
		next := pass(out)
		if next == out {
			return out
		}
		out = next
	}
}

func pass(s string) string {
	s = punctuation.Replace(s)
	for _, st := range steps {
		s = st.re.ReplaceAllLiteralString(s, st.with)
	}
	s = leading.ReplaceAllLiteralString(s, "")
	return trailing.ReplaceAllLiteralString(s, "")
}
