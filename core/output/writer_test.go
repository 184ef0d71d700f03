package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMirrored(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)

	testCases := []struct {
		url  string
		want string
	}{
		{"https://site.com/docs/intro", filepath.Join(dir, "docs", "intro.md")},
		{"https://site.com/docs/", filepath.Join(dir, "docs.md")},
		{"https://site.com", filepath.Join(dir, "index.md")},
		{"https://site.com/../../escape", filepath.Join(dir, "escape.md")},
	}
	for _, tc := range testCases {
		path, err := w.WriteMirrored(tc.url, []byte("x"), ".md")
		require.NoError(t, err)
		assert.Equal(t, tc.want, path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "x", string(data))
	}
}

func TestWriteFlat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)

	path, err := w.WriteFlat("https://example.com/docs/intro", []byte("x"), ".json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "example_com_docs_intro.json"), path)
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)

	path, err := w.WriteFile("nested/out.md", []byte("body"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nested", "out.md"), path)

	abs := filepath.Join(t.TempDir(), "abs.md")
	path, err = w.WriteFile(abs, []byte("body"))
	require.NoError(t, err)
	assert.Equal(t, abs, path)
}

func TestFlatName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "example_com_docs_intro", FlatName("https://example.com/docs/intro"))
	assert.Equal(t, "example_com", FlatName("https://example.com/"))
	assert.Equal(t, "not_a_url", FlatName("not a url"))
}
