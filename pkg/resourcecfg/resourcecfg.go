// Package resourcecfg rewrites the game's load-order configuration
// file so packages in nested category folders keep loading after the
// reorganization.
package resourcecfg

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/simstack/modtidy/pkg/errors"
)

// FileName is the load-order file the game reads from the mod root.
const FileName = "Resource.cfg"

// Content renders the file body: a fixed priority line, then one
// wildcard package-glob line per nesting depth from 0 up to
// maxDepth-1.
func Content(maxDepth int) string {
	var b strings.Builder
	b.WriteString("Priority 500\n")
	b.WriteString("PackedFile *.package\n")
	for depth := 1; depth < maxDepth; depth++ {
		b.WriteString("PackedFile " + strings.Repeat("*/", depth) + "*.package\n")
	}
	return b.String()
}

// Write rewrites the file under root.
func Write(root string, maxDepth int) error {
	path := filepath.Join(root, FileName)
	if err := os.WriteFile(path, []byte(Content(maxDepth)), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileIO, "failed to write %s", path)
	}
	return nil
}
