package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gaurav-prasanna/markcopy/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "cfg", DefaultFile))
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	s, err := tempStore(t).Load()
	require.NoError(t, err)
	assert.Equal(t, core.DefaultSettings(), s)
}

func TestLoadFillsDefaults(t *testing.T) {
	t.Parallel()

	store := tempStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o755))
	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"headingStyle":"setext","linkStyle":"weird"}`), 0o644))

	s, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, core.HeadingSetext, s.HeadingStyle)
	assert.Equal(t, core.LinkInlined, s.LinkStyle, "unknown values fall back to defaults")
	assert.Equal(t, "-", s.BulletListMarker)
	assert.True(t, s.IncludePageTitle)
	assert.True(t, s.TextReplacements.Pre.Enabled)
}

func TestLoadCorruptFile(t *testing.T) {
	t.Parallel()

	store := tempStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o755))
	require.NoError(t, os.WriteFile(store.Path(), []byte(`{not json`), 0o644))

	s, err := store.Load()
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.Equal(t, core.DefaultSettings(), s)

	assert.ErrorIs(t, store.Save(s), ErrCorrupt, "save does not clobber an unreadable file")
}

func TestResetCorruptFile(t *testing.T) {
	t.Parallel()

	store := tempStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o755))
	require.NoError(t, os.WriteFile(store.Path(), []byte(`{not json`), 0o644))

	require.NoError(t, store.Reset())
	reloaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, core.DefaultSettings(), reloaded)
}

func TestSavePreservesUnknownFields(t *testing.T) {
	t.Parallel()

	store := tempStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o755))
	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"theme":"dark","headingStyle":"atx"}`), 0o644))

	s, err := store.Load()
	require.NoError(t, err)
	s.BulletListMarker = "*"
	require.NoError(t, store.Save(s))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "dark", raw["theme"])
	assert.Equal(t, "*", raw["bulletListMarker"])

	reloaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, s, reloaded)
}

func TestReset(t *testing.T) {
	t.Parallel()

	store := tempStore(t)
	s := core.DefaultSettings()
	s.ImageHandling = core.ImagesSkip
	s.TextReplacements.Post.Rules = []core.TextReplacementRule{NewRule(core.ScopeAll, false, "a", "b")}
	require.NoError(t, store.Save(s))

	require.NoError(t, store.Reset())
	reloaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, core.DefaultSettings(), reloaded)
}

func TestDefaultPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultFile, filepath.Base(DefaultPath()))
	assert.Equal(t, AppName, filepath.Base(ConfigDir()))
	assert.Equal(t, DefaultPath(), NewStore("").Path())
}
