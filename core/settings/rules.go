package settings

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/gaurav-prasanna/markcopy/core"
	"github.com/google/uuid"
)

// Rule validation and lookup errors.
var (
	ErrRuleNotFound   = errors.New("replacement rule not found")
	ErrEmptyPattern   = errors.New("pattern must not be empty")
	ErrInvalidPattern = errors.New("invalid regular expression")
	ErrInvalidScope   = errors.New("invalid scope: must be all, page, selection or link")
	ErrUnknownGroup   = errors.New("unknown replacement group: must be pre or post")
	ErrInvalidIndex   = errors.New("rule index out of range")
	ErrDuplicateID    = errors.New("duplicate rule id")
)

// NewRule creates an enabled rule with a fresh id.
func NewRule(scope core.Scope, useRegex bool, pattern, replacement string) core.TextReplacementRule {
	return core.TextReplacementRule{
		ID:          uuid.NewString(),
		Enabled:     true,
		Scope:       scope,
		UseRegex:    useRegex,
		Pattern:     pattern,
		Replacement: replacement,
	}
}

// ValidateRule checks a rule before it is saved. Application never calls
// this; bad rules that reach the replacer are skipped there.
func ValidateRule(rule core.TextReplacementRule) error {
	if rule.Pattern == "" {
		return ErrEmptyPattern
	}
	if _, ok := core.ParseScope(string(rule.Scope)); !ok {
		return ErrInvalidScope
	}
	if rule.UseRegex {
		if _, err := regexp.Compile(rule.Pattern); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPattern, err)
		}
	}
	return nil
}

// Group returns the named group ("pre" or "post") of cfg.
func Group(cfg *core.TextReplacementConfig, name string) (*core.TextReplacementGroup, error) {
	switch name {
	case "pre":
		return &cfg.Pre, nil
	case "post":
		return &cfg.Post, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
}

// AddRule appends a validated rule. The input group is not modified.
func AddRule(g core.TextReplacementGroup, rule core.TextReplacementRule) (core.TextReplacementGroup, error) {
	if err := ValidateRule(rule); err != nil {
		return g, err
	}
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	if indexOf(g.Rules, rule.ID) >= 0 {
		return g, fmt.Errorf("%w: %s", ErrDuplicateID, rule.ID)
	}
	g.Rules = append(slices.Clone(g.Rules), rule)
	return g, nil
}

// UpdateRule replaces the rule with the same id in place, keeping its
// position and id.
func UpdateRule(g core.TextReplacementGroup, rule core.TextReplacementRule) (core.TextReplacementGroup, error) {
	i := indexOf(g.Rules, rule.ID)
	if i < 0 {
		return g, fmt.Errorf("%w: %s", ErrRuleNotFound, rule.ID)
	}
	if err := ValidateRule(rule); err != nil {
		return g, err
	}
	g.Rules = slices.Clone(g.Rules)
	g.Rules[i] = rule
	return g, nil
}

// RemoveRule drops the rule with the given id.
func RemoveRule(g core.TextReplacementGroup, id string) (core.TextReplacementGroup, error) {
	i := indexOf(g.Rules, id)
	if i < 0 {
		return g, fmt.Errorf("%w: %s", ErrRuleNotFound, id)
	}
	g.Rules = slices.Delete(slices.Clone(g.Rules), i, i+1)
	return g, nil
}

// MoveRule moves the rule at from so it ends up at index to, shifting the
// rules in between. This is the splice a drag-reorder performs.
func MoveRule(g core.TextReplacementGroup, from, to int) (core.TextReplacementGroup, error) {
	n := len(g.Rules)
	if from < 0 || from >= n || to < 0 || to >= n {
		return g, fmt.Errorf("%w: move %d -> %d with %d rules", ErrInvalidIndex, from, to, n)
	}
	rules := slices.Clone(g.Rules)
	rule := rules[from]
	rules = slices.Delete(rules, from, from+1)
	g.Rules = slices.Insert(rules, to, rule)
	return g, nil
}

// SetEnabled toggles a single rule.
func SetEnabled(g core.TextReplacementGroup, id string, enabled bool) (core.TextReplacementGroup, error) {
	i := indexOf(g.Rules, id)
	if i < 0 {
		return g, fmt.Errorf("%w: %s", ErrRuleNotFound, id)
	}
	g.Rules = slices.Clone(g.Rules)
	g.Rules[i].Enabled = enabled
	return g, nil
}

// FindRule resolves a rule by exact id or by unique id prefix.
func FindRule(g core.TextReplacementGroup, ref string) (core.TextReplacementRule, error) {
	if i := indexOf(g.Rules, ref); i >= 0 {
		return g.Rules[i], nil
	}
	var found []core.TextReplacementRule
	for _, r := range g.Rules {
		if ref != "" && strings.HasPrefix(r.ID, ref) {
			found = append(found, r)
		}
	}
	if len(found) != 1 {
		return core.TextReplacementRule{}, fmt.Errorf("%w: %s", ErrRuleNotFound, ref)
	}
	return found[0], nil
}

// MergeRules folds incoming into existing: rules whose id already exists
// are replaced in place, the rest are appended in their incoming order.
func MergeRules(existing, incoming []core.TextReplacementRule) []core.TextReplacementRule {
	out := slices.Clone(existing)
	for _, r := range incoming {
		if i := indexOf(out, r.ID); i >= 0 && r.ID != "" {
			out[i] = r
			continue
		}
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		out = append(out, r)
	}
	if out == nil {
		out = []core.TextReplacementRule{}
	}
	return out
}

func indexOf(rules []core.TextReplacementRule, id string) int {
	return slices.IndexFunc(rules, func(r core.TextReplacementRule) bool {
		return r.ID == id
	})
}
