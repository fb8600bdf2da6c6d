// Test Type: Unit Test
// Description: Tests for the command tree - subcommand registration
// and persistent flag defaults

package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simstack/modtidy/pkg/config"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	t.Run("registers_all_subcommands", func(t *testing.T) {
		var names []string
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		for _, want := range []string{"fix", "inventory", "conflicts", "broken", "versions", "genconfig", "version"} {
			assert.Contains(t, names, want)
		}
	})

	t.Run("persistent_flags_present", func(t *testing.T) {
		for _, name := range []string{"verbose", "apply", "auto", "root", "quarantine-dir", "report-dir", "no-progress"} {
			assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing flag %s", name)
		}
	})

	t.Run("preview_is_the_default", func(t *testing.T) {
		apply := cmd.PersistentFlags().Lookup("apply")
		require.NotNil(t, apply)
		assert.Equal(t, "false", apply.DefValue)
	})
}

func TestDefaultModsRoot(t *testing.T) {
	root := defaultModsRoot()
	assert.True(t, strings.HasSuffix(root, "Mods"))
	assert.Contains(t, root, "The Sims 4")
}

func TestGenConfigContent(t *testing.T) {
	content := config.GetDefaultConfigContent()
	assert.Contains(t, content, "[scan]")
	assert.Contains(t, content, "tiny_threshold")
	assert.Contains(t, content, `name = "CAS-Hair"`)
}
