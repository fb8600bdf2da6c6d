// Test Type: Unit Test
// Description: Tests for configuration loading - embedded defaults,
// mod-root overrides and validation

package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simstack/modtidy/pkg/config"
	"github.com/simstack/modtidy/pkg/errors"
	"github.com/simstack/modtidy/pkg/testutil"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, int64(1024), cfg.Scan.TinyThreshold)
	assert.Equal(t, 5, cfg.Scan.MaxDepth)
	assert.ElementsMatch(t, []string{".zip", ".rar", ".7z"}, cfg.Extensions.Archive)
	assert.Contains(t, cfg.Extensions.Package, ".package")
	assert.Contains(t, cfg.Garbage.Names, ".DS_Store")
	assert.NotEmpty(t, cfg.Versions.FeedURL)

	require.NotEmpty(t, cfg.Categories)
	assert.Equal(t, "Build-Kitchen", cfg.Categories[0].Name)
	assert.Equal(t, "Scripts", cfg.Categories[len(cfg.Categories)-1].Name)
}

func TestLoad(t *testing.T) {
	t.Run("no_overrides_matches_defaults", func(t *testing.T) {
		root := t.TempDir()
		cfg, err := config.Load(root)
		require.NoError(t, err)
		assert.Equal(t, config.Default().Scan, cfg.Scan)
		assert.Equal(t, config.Default().Extensions, cfg.Extensions)
	})

	t.Run("mod_root_file_overrides_defaults", func(t *testing.T) {
		root := t.TempDir()
		testutil.WriteFile(t, root, config.ConfigFileName, []byte("[scan]\ntiny_threshold = 4096\n"))

		cfg, err := config.Load(root)
		require.NoError(t, err)
		assert.Equal(t, int64(4096), cfg.Scan.TinyThreshold)
		// Untouched keys keep their defaults.
		assert.Equal(t, 5, cfg.Scan.MaxDepth)
	})

	t.Run("malformed_override_fails", func(t *testing.T) {
		root := t.TempDir()
		testutil.WriteFile(t, root, config.ConfigFileName, []byte("[scan\nbroken"))

		_, err := config.Load(root)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	})

	t.Run("invalid_max_depth_rejected", func(t *testing.T) {
		root := t.TempDir()
		testutil.WriteFile(t, root, config.ConfigFileName, []byte("[scan]\nmax_depth = 0\n"))

		_, err := config.Load(root)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	})

	t.Run("empty_root_uses_defaults", func(t *testing.T) {
		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, int64(1024), cfg.Scan.TinyThreshold)
	})
}
