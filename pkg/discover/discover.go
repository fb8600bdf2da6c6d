// Package discover walks the mod root and produces the file
// snapshot the pipeline's decisions are computed from.
//
// Discovery only stats; it never reads file contents. The result is
// sorted by relative path so traversal order, and with it the
// keeper choice in duplicate groups, is deterministic across
// platforms and filesystems.
package discover

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/simstack/modtidy/pkg/classify"
	"github.com/simstack/modtidy/pkg/errors"
	"github.com/simstack/modtidy/pkg/logging"
	"github.com/simstack/modtidy/pkg/types"
)

// Snapshot is the complete file list of one discovery pass,
// partitioned by kind. Later phases consult the snapshot's decisions
// but re-check existence before acting, since earlier phases may
// already have relocated a file.
type Snapshot struct {
	// Files is every regular file under the root, sorted by
	// relative path.
	Files []*types.ModFile

	// Archives, Packages and Garbage are kind-filtered views into
	// Files. Packages includes script packages.
	Archives []*types.ModFile
	Packages []*types.ModFile
	Garbage  []*types.ModFile
}

// Walker discovers mod files under a root directory.
type Walker struct {
	classifier *classify.Classifier
	logger     zerolog.Logger
}

// NewWalker creates a Walker using the given classifier for kind
// assignment.
func NewWalker(classifier *classify.Classifier) *Walker {
	return &Walker{
		classifier: classifier,
		logger:     logging.GetLogger("discover"),
	}
}

// Walk scans root and returns the snapshot. A missing root is the
// one fatal condition of the whole pipeline; per-file stat failures
// are logged and the file skipped.
func (w *Walker) Walk(root string) (*Snapshot, error) {
	root = filepath.Clean(root)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, errors.Newf(errors.ErrModsRootMissing, "mods folder not found: %s", root)
	}

	snap := &Snapshot{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// A directory that vanished or denies access is skipped,
			// not fatal.
			w.logger.Warn().Err(walkErr).Str("path", path).Msg("Skipping unreadable entry")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			w.logger.Warn().Err(err).Str("path", path).Msg("Skipping file that failed stat")
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			w.logger.Warn().Err(err).Str("path", path).Msg("Skipping file outside root")
			return nil
		}

		name := d.Name()
		snap.Files = append(snap.Files, &types.ModFile{
			AbsPath: path,
			RelPath: rel,
			Name:    name,
			Ext:     strings.ToLower(filepath.Ext(name)),
			Size:    info.Size(),
			Added:   info.ModTime(),
			Kind:    w.classifier.Kind(path),
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileIO, "walk failed")
	}

	sort.Slice(snap.Files, func(i, j int) bool { return snap.Files[i].RelPath < snap.Files[j].RelPath })

	for _, f := range snap.Files {
		switch f.Kind {
		case types.KindArchive:
			snap.Archives = append(snap.Archives, f)
		case types.KindPackage, types.KindScriptPackage:
			snap.Packages = append(snap.Packages, f)
		case types.KindGarbage:
			snap.Garbage = append(snap.Garbage, f)
		}
	}

	w.logger.Debug().
		Int("files", len(snap.Files)).
		Int("archives", len(snap.Archives)).
		Int("packages", len(snap.Packages)).
		Int("garbage", len(snap.Garbage)).
		Str("root", root).
		Msg("Discovery complete")

	return snap, nil
}
