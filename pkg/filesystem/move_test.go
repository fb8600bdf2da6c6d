// Test Type: Unit Test
// Description: Tests for the filesystem package - moves and
// collision-safe destination names

package filesystem_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simstack/modtidy/pkg/filesystem"
	"github.com/simstack/modtidy/pkg/testutil"
)

func TestMove(t *testing.T) {
	t.Run("moves_file_creating_parent", func(t *testing.T) {
		root := t.TempDir()
		src := testutil.WriteFile(t, root, "a/x.package", []byte("content"))
		dst := filepath.Join(root, "CAS-Hair", "x.package")

		require.NoError(t, filesystem.Move(src, dst))

		assert.False(t, testutil.Exists(src))
		data, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "content", string(data))
	})

	t.Run("missing_source_fails", func(t *testing.T) {
		root := t.TempDir()
		err := filesystem.Move(filepath.Join(root, "gone"), filepath.Join(root, "dst"))
		require.Error(t, err)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestExists(t *testing.T) {
	root := t.TempDir()
	path := testutil.WriteFile(t, root, "x.package", []byte("x"))

	assert.True(t, filesystem.Exists(path))
	assert.False(t, filesystem.Exists(filepath.Join(root, "nope")))
}

func TestUniquePath(t *testing.T) {
	t.Run("free_name_unchanged", func(t *testing.T) {
		root := t.TempDir()
		dst := filepath.Join(root, "x.package")
		assert.Equal(t, dst, filesystem.UniquePath(dst))
	})

	t.Run("occupied_name_gets_numeric_suffix", func(t *testing.T) {
		root := t.TempDir()
		testutil.WriteFile(t, root, "x.package", []byte("first"))

		got := filesystem.UniquePath(filepath.Join(root, "x.package"))
		assert.Equal(t, filepath.Join(root, "x.1.package"), got)
	})

	t.Run("suffix_counts_up_past_existing", func(t *testing.T) {
		root := t.TempDir()
		testutil.WriteFile(t, root, "x.package", []byte("a"))
		testutil.WriteFile(t, root, "x.1.package", []byte("b"))

		got := filesystem.UniquePath(filepath.Join(root, "x.package"))
		assert.Equal(t, filepath.Join(root, "x.2.package"), got)
	})
}
