package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDefaults(t *testing.T) {
	t.Parallel()

	s := Settings{
		HeadingStyle:     "huge",
		BulletListMarker: "~",
		CodeBlockStyle:   CodeBlockIndented,
		LinkStyle:        "",
		ImageHandling:    ImagesSkip,
	}.WithDefaults()

	assert.Equal(t, HeadingATX, s.HeadingStyle)
	assert.Equal(t, "-", s.BulletListMarker)
	assert.Equal(t, CodeBlockIndented, s.CodeBlockStyle)
	assert.Equal(t, LinkInlined, s.LinkStyle)
	assert.Equal(t, ImagesSkip, s.ImageHandling)
	assert.NotNil(t, s.TextReplacements.Pre.Rules)
	assert.NotNil(t, s.TextReplacements.Post.Rules)
}

func TestParseScope(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"all", "page", "selection", "link"} {
		scope, ok := ParseScope(in)
		assert.True(t, ok, in)
		assert.Equal(t, Scope(in), scope)
	}
	_, ok := ParseScope("element")
	assert.False(t, ok)
}

func TestSettingsJSONNames(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(DefaultSettings())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{
		"headingStyle", "bulletListMarker", "codeBlockStyle", "linkStyle",
		"imageHandling", "includePageTitle", "includeSourceUrl", "textReplacements",
	} {
		assert.Contains(t, raw, key)
	}
}
