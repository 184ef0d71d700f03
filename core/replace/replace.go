// Package replace applies ordered, scope-filtered find/replace rules to
// text. It is used twice per copy: on the extracted source before
// conversion and on the finished Markdown.
package replace

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/markcopy/core"
)

// Replacer applies text replacement rules. A bad rule is logged and
// skipped; it never aborts the rest of the list.
type Replacer struct {
	logger *slog.Logger
}

// New creates a Replacer. A nil logger means slog.Default().
func New(logger *slog.Logger) *Replacer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Replacer{logger: logger}
}

// Apply is shorthand for New(nil).Apply.
func Apply(text string, rules []core.TextReplacementRule, scope core.Scope) string {
	return New(nil).Apply(text, rules, scope)
}

// Apply runs rules over text in list order and returns the result.
// Disabled rules and rules scoped to another operation are skipped.
func (r *Replacer) Apply(text string, rules []core.TextReplacementRule, scope core.Scope) string {
	if text == "" || rules == nil {
		return text
	}

	result := text
	for _, rule := range rules {
		if !Applies(rule, scope) {
			continue
		}
		if rule.Pattern == "" {
			r.logger.Debug("skipping replacement rule with empty pattern", "rule_id", rule.ID)
			continue
		}

		out, err := applyRule(result, rule)
		if err != nil {
			r.logger.Warn("invalid replacement rule",
				"rule_id", rule.ID,
				"pattern", rule.Pattern,
				"error", err,
			)
			continue
		}
		result = out
	}
	return result
}

// Applies reports whether rule is active for an operation of the given scope.
func Applies(rule core.TextReplacementRule, scope core.Scope) bool {
	if !rule.Enabled {
		return false
	}
	return rule.Scope == core.ScopeAll || rule.Scope == scope
}

func applyRule(text string, rule core.TextReplacementRule) (string, error) {
	if !rule.UseRegex {
		return strings.ReplaceAll(text, rule.Pattern, rule.Replacement), nil
	}
	re, err := regexp.Compile(rule.Pattern)
	if err != nil {
		return "", fmt.Errorf("compiling pattern: %w", err)
	}
	return ReplaceRegexp(text, re, rule.Replacement), nil
}

// ReplaceRegexp replaces every match of re in text with repl. repl may
// reference the match the way browser replacement strings do:
//
//	$$        a literal dollar sign
//	$&        the whole match
//	$` and $' the text before and after the match
//	$n, $nn   capture group n (1-99); two digits win when that group exists
//	$<name>   a named group, when the pattern has any
//
// ${n} and ${name} are accepted as well. A reference to a group the
// pattern does not have, $0 included, is kept literally. A group that
// did not take part in the match expands to "".
func ReplaceRegexp(text string, re *regexp.Regexp, repl string) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}

	names := re.SubexpNames()
	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])
		expand(&b, repl, text, m, names)
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

func expand(b *strings.Builder, repl, src string, m []int, names []string) {
	groups := len(m)/2 - 1
	group := func(n int) string {
		if m[2*n] < 0 {
			return ""
		}
		return src[m[2*n]:m[2*n+1]]
	}

	for i := 0; i < len(repl); i++ {
		c := repl[i]
		if c != '$' || i+1 == len(repl) {
			b.WriteByte(c)
			continue
		}

		switch next := repl[i+1]; {
		case next == '$':
			b.WriteByte('$')
			i++
		case next == '&':
			b.WriteString(group(0))
			i++
		case next == '`':
			b.WriteString(src[:m[0]])
			i++
		case next == '\'':
			b.WriteString(src[m[1]:])
			i++
		case isDigit(next):
			n, width := groupRef(repl[i+1:], groups)
			if width == 0 {
				b.WriteByte('$')
				continue
			}
			b.WriteString(group(n))
			i += width
		case next == '<' && hasNamedGroups(names):
			end := strings.IndexByte(repl[i+2:], '>')
			if end < 0 {
				b.WriteByte('$')
				continue
			}
			if n := slices.Index(names, repl[i+2:i+2+end]); n > 0 {
				b.WriteString(group(n))
			}
			i += 2 + end
		case next == '{':
			end := strings.IndexByte(repl[i+2:], '}')
			if end < 0 {
				b.WriteByte('$')
				continue
			}
			n, ok := lookupGroup(repl[i+2:i+2+end], names, groups)
			if !ok {
				b.WriteByte('$')
				continue
			}
			b.WriteString(group(n))
			i += 2 + end
		default:
			b.WriteByte('$')
		}
	}
}

// groupRef reads the group number at the start of s, preferring two
// digits when that group exists. width is 0 when no group is named.
func groupRef(s string, groups int) (n, width int) {
	if len(s) >= 2 && isDigit(s[1]) {
		if nn := int(s[0]-'0')*10 + int(s[1]-'0'); nn >= 1 && nn <= groups {
			return nn, 2
		}
	}
	if d := int(s[0] - '0'); d >= 1 && d <= groups {
		return d, 1
	}
	return 0, 0
}

func lookupGroup(ref string, names []string, groups int) (int, bool) {
	if n, err := strconv.Atoi(ref); err == nil {
		return n, n >= 0 && n <= groups
	}
	n := slices.Index(names, ref)
	return n, n > 0
}

func hasNamedGroups(names []string) bool {
	return slices.ContainsFunc(names, func(name string) bool { return name != "" })
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
