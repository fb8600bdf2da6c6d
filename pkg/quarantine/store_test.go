// Test Type: Unit Test
// Description: Tests for the quarantine store - three-way outcomes
// and collision-safe quarantine names

package quarantine_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simstack/modtidy/pkg/quarantine"
	"github.com/simstack/modtidy/pkg/testutil"
	"github.com/simstack/modtidy/pkg/types"
)

func TestQuarantine(t *testing.T) {
	t.Run("moves_file_into_store", func(t *testing.T) {
		root := t.TempDir()
		qdir := filepath.Join(root, "Quarantine")
		src := testutil.WriteFile(t, root, "Mods/bad.package", []byte("junk"))

		store := quarantine.NewStore(qdir, types.ModeApply)
		outcome, err := store.Quarantine(src, types.ReasonCorrupt)
		require.NoError(t, err)
		assert.Equal(t, types.OutcomeApplied, outcome)

		assert.False(t, testutil.Exists(src))
		assert.True(t, testutil.Exists(filepath.Join(qdir, "bad.package")))
	})

	t.Run("missing_source_is_skipped_not_failed", func(t *testing.T) {
		root := t.TempDir()
		store := quarantine.NewStore(filepath.Join(root, "Quarantine"), types.ModeApply)

		outcome, err := store.Quarantine(filepath.Join(root, "already-gone.package"), types.ReasonDuplicate)
		require.NoError(t, err)
		assert.Equal(t, types.OutcomeSkippedMissing, outcome)
	})

	t.Run("preview_reports_applied_without_mutation", func(t *testing.T) {
		root := t.TempDir()
		qdir := filepath.Join(root, "Quarantine")
		src := testutil.WriteFile(t, root, "Mods/tiny.package", []byte("x"))

		store := quarantine.NewStore(qdir, types.ModePreview)
		outcome, err := store.Quarantine(src, types.ReasonUndersized)
		require.NoError(t, err)
		assert.Equal(t, types.OutcomeApplied, outcome)

		assert.True(t, testutil.Exists(src))
		_, statErr := os.Lstat(qdir)
		assert.True(t, os.IsNotExist(statErr), "preview must not create the quarantine directory")
	})

	t.Run("same_name_twice_keeps_both", func(t *testing.T) {
		root := t.TempDir()
		qdir := filepath.Join(root, "Quarantine")
		first := testutil.WriteFile(t, root, "a/dup.package", []byte("first"))
		second := testutil.WriteFile(t, root, "b/dup.package", []byte("second"))

		store := quarantine.NewStore(qdir, types.ModeApply)
		for _, src := range []string{first, second} {
			outcome, err := store.Quarantine(src, types.ReasonDuplicate)
			require.NoError(t, err)
			assert.Equal(t, types.OutcomeApplied, outcome)
		}

		assert.True(t, testutil.Exists(filepath.Join(qdir, "dup.package")))
		assert.True(t, testutil.Exists(filepath.Join(qdir, "dup.1.package")))
	})
}
