package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFiles(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.hcl", "sub/b.hcl", "sub/notes.txt", "sub/deep/c.hcl"} {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}
	single := filepath.Join(root, "a.hcl")

	t.Run("walks directories and dedupes", func(t *testing.T) {
		files, err := FindFiles([]string{root, single}, ".hcl")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			single,
			filepath.Join(root, "sub", "b.hcl"),
			filepath.Join(root, "sub", "deep", "c.hcl"),
		}, files)
	})

	t.Run("skips files with another extension", func(t *testing.T) {
		files, err := FindFiles([]string{filepath.Join(root, "sub", "notes.txt")}, ".hcl")
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := FindFiles([]string{filepath.Join(root, "nope")}, ".hcl")
		assert.Error(t, err)
	})

	t.Run("empty extension panics", func(t *testing.T) {
		assert.Panics(t, func() { _, _ = FindFiles(nil, "") })
	})
}
