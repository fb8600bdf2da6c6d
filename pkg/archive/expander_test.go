// Test Type: Unit Test
// Description: Tests for archive expansion - zip extraction, path
// confinement and unsupported formats

package archive_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simstack/modtidy/pkg/archive"
	"github.com/simstack/modtidy/pkg/errors"
	"github.com/simstack/modtidy/pkg/testutil"
)

// writeZip builds a zip at path whose entries map archive names to
// contents.
func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	out, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())
}

func TestExpand(t *testing.T) {
	t.Run("extracts_zip_preserving_layout", func(t *testing.T) {
		root := t.TempDir()
		src := filepath.Join(root, "bundle.zip")
		writeZip(t, src, map[string]string{
			"hair.package":          "DBPFhair",
			"nested/tuning.package": "DBPFtuning",
		})

		dest := filepath.Join(root, "out")
		require.NoError(t, archive.NewExpander().Expand(src, dest))

		data, err := os.ReadFile(filepath.Join(dest, "hair.package"))
		require.NoError(t, err)
		assert.Equal(t, "DBPFhair", string(data))
		assert.True(t, testutil.Exists(filepath.Join(dest, "nested", "tuning.package")))
	})

	t.Run("rejects_entry_escaping_destination", func(t *testing.T) {
		root := t.TempDir()
		src := filepath.Join(root, "evil.zip")
		writeZip(t, src, map[string]string{
			"../escape.package": "DBPFx",
		})

		dest := filepath.Join(root, "out")
		err := archive.NewExpander().Expand(src, dest)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrExtract))
		assert.False(t, testutil.Exists(filepath.Join(root, "escape.package")))
	})

	t.Run("unsupported_extension_fails", func(t *testing.T) {
		root := t.TempDir()
		src := testutil.WriteFile(t, root, "mods.tar", []byte("not an archive"))

		err := archive.NewExpander().Expand(src, filepath.Join(root, "out"))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrExtract))
	})

	t.Run("corrupt_zip_fails_leaving_source", func(t *testing.T) {
		root := t.TempDir()
		src := testutil.WriteFile(t, root, "broken.zip", []byte("PK but not really"))

		err := archive.NewExpander().Expand(src, filepath.Join(root, "out"))
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrExtract))
		assert.True(t, testutil.Exists(src))
	})
}

func TestBackupWriter(t *testing.T) {
	t.Run("snapshots_tree_into_zip", func(t *testing.T) {
		root := t.TempDir()
		mods := filepath.Join(root, "Mods")
		testutil.WriteFile(t, mods, "a.package", []byte("alpha"))
		testutil.WriteFile(t, mods, "CAS-Hair/b.package", []byte("beta"))

		dest := filepath.Join(root, "backup.zip")
		require.NoError(t, archive.NewBackupWriter().Write(mods, dest))

		r, err := zip.OpenReader(dest)
		require.NoError(t, err)
		defer func() { _ = r.Close() }()

		names := make(map[string]bool)
		for _, f := range r.File {
			names[f.Name] = true
		}
		assert.True(t, names["a.package"])
		assert.True(t, names["CAS-Hair/b.package"])
		assert.Len(t, r.File, 2)
	})

	t.Run("backup_round_trips_content", func(t *testing.T) {
		root := t.TempDir()
		mods := filepath.Join(root, "Mods")
		testutil.WriteFile(t, mods, "x.package", []byte("payload"))

		dest := filepath.Join(root, "backup.zip")
		require.NoError(t, archive.NewBackupWriter().Write(mods, dest))

		r, err := zip.OpenReader(dest)
		require.NoError(t, err)
		defer func() { _ = r.Close() }()

		require.Len(t, r.File, 1)
		rc, err := r.File[0].Open()
		require.NoError(t, err)
		defer func() { _ = rc.Close() }()

		buf := make([]byte, 16)
		n, _ := rc.Read(buf)
		assert.Equal(t, "payload", string(buf[:n]))
	})
}
