// Test Type: Unit Test
// Description: Tests for discovery - snapshot ordering, kind
// partitioning and the fatal missing-root condition

package discover_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simstack/modtidy/pkg/classify"
	"github.com/simstack/modtidy/pkg/config"
	"github.com/simstack/modtidy/pkg/discover"
	"github.com/simstack/modtidy/pkg/errors"
	"github.com/simstack/modtidy/pkg/testutil"
	"github.com/simstack/modtidy/pkg/types"
)

func newWalker(t *testing.T) *discover.Walker {
	t.Helper()
	return discover.NewWalker(classify.New(config.Default()))
}

func TestWalk(t *testing.T) {
	t.Run("missing_root_is_fatal", func(t *testing.T) {
		root := t.TempDir()
		_, err := newWalker(t).Walk(filepath.Join(root, "does-not-exist"))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrModsRootMissing))
	})

	t.Run("file_root_is_fatal", func(t *testing.T) {
		root := t.TempDir()
		path := testutil.WriteFile(t, root, "not-a-dir", []byte("x"))
		_, err := newWalker(t).Walk(path)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrModsRootMissing))
	})

	t.Run("snapshot_sorted_by_relative_path", func(t *testing.T) {
		root := t.TempDir()
		testutil.WriteFile(t, root, "zeta/c.package", []byte("c"))
		testutil.WriteFile(t, root, "alpha/b.package", []byte("b"))
		testutil.WriteFile(t, root, "a.package", []byte("a"))

		snap, err := newWalker(t).Walk(root)
		require.NoError(t, err)

		rels := make([]string, 0, len(snap.Files))
		for _, f := range snap.Files {
			rels = append(rels, filepath.ToSlash(f.RelPath))
		}
		assert.Equal(t, []string{"a.package", "alpha/b.package", "zeta/c.package"}, rels)
	})

	t.Run("partitions_by_kind", func(t *testing.T) {
		root := t.TempDir()
		testutil.WriteFile(t, root, "hair.package", []byte("p"))
		testutil.WriteFile(t, root, "tuning.ts4script", []byte("s"))
		testutil.WriteFile(t, root, "bundle.zip", []byte("z"))
		testutil.WriteFile(t, root, ".DS_Store", []byte("g"))
		testutil.WriteFile(t, root, "readme.txt", []byte("t"))

		snap, err := newWalker(t).Walk(root)
		require.NoError(t, err)

		assert.Len(t, snap.Files, 5)
		require.Len(t, snap.Archives, 1)
		assert.Equal(t, "bundle.zip", snap.Archives[0].Name)
		require.Len(t, snap.Garbage, 1)
		assert.Equal(t, ".DS_Store", snap.Garbage[0].Name)

		// Packages includes script packages.
		require.Len(t, snap.Packages, 2)
		kinds := map[string]types.FileKind{}
		for _, f := range snap.Packages {
			kinds[f.Name] = f.Kind
		}
		assert.Equal(t, types.KindPackage, kinds["hair.package"])
		assert.Equal(t, types.KindScriptPackage, kinds["tuning.ts4script"])
	})

	t.Run("records_size_and_extension", func(t *testing.T) {
		root := t.TempDir()
		testutil.WriteFile(t, root, "Big.PACKAGE", []byte("0123456789"))

		snap, err := newWalker(t).Walk(root)
		require.NoError(t, err)
		require.Len(t, snap.Files, 1)

		f := snap.Files[0]
		assert.Equal(t, int64(10), f.Size)
		assert.Equal(t, ".package", f.Ext)
		assert.Equal(t, types.KindPackage, f.Kind)
	})
}

func TestStandardizeFolders(t *testing.T) {
	categories := []string{"CAS-Hair", "Gameplay-Mods"}

	t.Run("renames_case_and_space_variants", func(t *testing.T) {
		root := t.TempDir()
		testutil.WriteFile(t, root, "cas hair/x.package", []byte("x"))

		renamed := discover.StandardizeFolders(root, categories, types.ModeApply)
		assert.Equal(t, 1, renamed)
		assert.True(t, testutil.Exists(filepath.Join(root, "CAS-Hair", "x.package")))
		assert.False(t, testutil.Exists(filepath.Join(root, "cas hair")))
	})

	t.Run("canonical_name_left_alone", func(t *testing.T) {
		root := t.TempDir()
		testutil.WriteFile(t, root, "CAS-Hair/x.package", []byte("x"))

		renamed := discover.StandardizeFolders(root, categories, types.ModeApply)
		assert.Equal(t, 0, renamed)
	})

	t.Run("occupied_target_is_skipped", func(t *testing.T) {
		root := t.TempDir()
		testutil.WriteFile(t, root, "CAS-Hair/a.package", []byte("a"))
		testutil.WriteFile(t, root, "cas hair/b.package", []byte("b"))
		testutil.WriteFile(t, root, "gameplay mods/c.package", []byte("c"))

		renamed := discover.StandardizeFolders(root, categories, types.ModeApply)
		assert.Equal(t, 1, renamed)
		assert.True(t, testutil.Exists(filepath.Join(root, "Gameplay-Mods", "c.package")))
		assert.True(t, testutil.Exists(filepath.Join(root, "cas hair", "b.package")))
	})

	t.Run("preview_counts_without_renaming", func(t *testing.T) {
		root := t.TempDir()
		testutil.WriteFile(t, root, "gameplay mods/x.package", []byte("x"))

		renamed := discover.StandardizeFolders(root, categories, types.ModePreview)
		assert.Equal(t, 1, renamed)
		assert.True(t, testutil.Exists(filepath.Join(root, "gameplay mods", "x.package")))
		assert.False(t, testutil.Exists(filepath.Join(root, "Gameplay-Mods")))
	})
}
