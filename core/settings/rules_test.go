package settings

import (
	"testing"

	"github.com/gaurav-prasanna/markcopy/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func group(ids ...string) core.TextReplacementGroup {
	g := core.TextReplacementGroup{Enabled: true, Rules: []core.TextReplacementRule{}}
	for _, id := range ids {
		r := NewRule(core.ScopeAll, false, id, "")
		r.ID = id
		g.Rules = append(g.Rules, r)
	}
	return g
}

func ids(g core.TextReplacementGroup) []string {
	out := make([]string, 0, len(g.Rules))
	for _, r := range g.Rules {
		out = append(out, r.ID)
	}
	return out
}

func TestNewRule(t *testing.T) {
	t.Parallel()

	a := NewRule(core.ScopePage, true, `\d+`, "#")
	b := NewRule(core.ScopePage, true, `\d+`, "#")
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, a.Enabled)
	assert.Equal(t, core.ScopePage, a.Scope)
}

func TestValidateRule(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		rule core.TextReplacementRule
		want error
	}{
		{"valid literal", NewRule(core.ScopeAll, false, "(", "x"), nil},
		{"valid regex", NewRule(core.ScopeLink, true, `\w+`, "x"), nil},
		{"empty pattern", NewRule(core.ScopeAll, false, "", "x"), ErrEmptyPattern},
		{"bad regex", NewRule(core.ScopeAll, true, "(", "x"), ErrInvalidPattern},
		{"bad scope", NewRule("everywhere", false, "a", "x"), ErrInvalidScope},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateRule(tc.rule)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAddRule(t *testing.T) {
	t.Parallel()

	g := group("a")
	updated, err := AddRule(g, NewRule(core.ScopeAll, false, "x", "y"))
	require.NoError(t, err)
	assert.Len(t, updated.Rules, 2)
	assert.Len(t, g.Rules, 1, "input group is not modified")

	_, err = AddRule(updated, updated.Rules[0])
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = AddRule(g, NewRule(core.ScopeAll, false, "", "y"))
	assert.ErrorIs(t, err, ErrEmptyPattern)

	noID := NewRule(core.ScopeAll, false, "p", "q")
	noID.ID = ""
	withID, err := AddRule(g, noID)
	require.NoError(t, err)
	assert.NotEmpty(t, withID.Rules[1].ID)
}

func TestUpdateRule(t *testing.T) {
	t.Parallel()

	g := group("a", "b", "c")
	edited := g.Rules[1]
	edited.Replacement = "changed"

	updated, err := UpdateRule(g, edited)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(updated), "edit keeps position and id")
	assert.Equal(t, "changed", updated.Rules[1].Replacement)
	assert.Empty(t, g.Rules[1].Replacement)

	missing := edited
	missing.ID = "zzz"
	_, err = UpdateRule(g, missing)
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestRemoveRule(t *testing.T) {
	t.Parallel()

	g := group("a", "b", "c")
	updated, err := RemoveRule(g, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids(updated))
	assert.Equal(t, []string{"a", "b", "c"}, ids(g))

	_, err = RemoveRule(g, "zzz")
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestMoveRule(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		from, to int
		want     []string
	}{
		{0, 2, []string{"b", "c", "a"}},
		{2, 0, []string{"c", "a", "b"}},
		{1, 1, []string{"a", "b", "c"}},
		{1, 2, []string{"a", "c", "b"}},
	}
	for _, tc := range testCases {
		updated, err := MoveRule(group("a", "b", "c"), tc.from, tc.to)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ids(updated), "move %d -> %d", tc.from, tc.to)
	}

	_, err := MoveRule(group("a"), 0, 1)
	assert.ErrorIs(t, err, ErrInvalidIndex)
	_, err = MoveRule(group("a"), -1, 0)
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestSetEnabled(t *testing.T) {
	t.Parallel()

	g := group("a", "b")
	updated, err := SetEnabled(g, "b", false)
	require.NoError(t, err)
	assert.False(t, updated.Rules[1].Enabled)
	assert.True(t, g.Rules[1].Enabled)

	_, err = SetEnabled(g, "c", true)
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestFindRule(t *testing.T) {
	t.Parallel()

	g := group("abc123", "abd456", "xyz")

	r, err := FindRule(g, "xyz")
	require.NoError(t, err)
	assert.Equal(t, "xyz", r.ID)

	r, err = FindRule(g, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc123", r.ID)

	_, err = FindRule(g, "ab")
	assert.ErrorIs(t, err, ErrRuleNotFound, "ambiguous prefix")

	_, err = FindRule(g, "")
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestMergeRules(t *testing.T) {
	t.Parallel()

	existing := group("a", "b").Rules
	replacement := existing[1]
	replacement.Replacement = "new"
	incoming := append([]core.TextReplacementRule{replacement}, group("c").Rules...)

	merged := MergeRules(existing, incoming)
	assert.Equal(t, []string{"a", "b", "c"}, ids(core.TextReplacementGroup{Rules: merged}))
	assert.Equal(t, "new", merged[1].Replacement)

	assert.NotNil(t, MergeRules(nil, nil))
}

func TestGroup(t *testing.T) {
	t.Parallel()

	cfg := core.DefaultSettings().TextReplacements
	pre, err := Group(&cfg, "pre")
	require.NoError(t, err)
	pre.Enabled = false
	assert.False(t, cfg.Pre.Enabled, "group is returned by reference")

	_, err = Group(&cfg, "middle")
	assert.ErrorIs(t, err, ErrUnknownGroup)
}
