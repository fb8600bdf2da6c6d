// Package quarantine isolates suspect files instead of deleting
// them: duplicates, undersized files and corrupt packages are moved
// into a quarantine directory from which the user can recover them.
package quarantine

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/simstack/modtidy/pkg/errors"
	"github.com/simstack/modtidy/pkg/filesystem"
	"github.com/simstack/modtidy/pkg/logging"
	"github.com/simstack/modtidy/pkg/types"
)

// Store moves files into the quarantine directory. In preview mode
// it only reports what would happen and performs no mutation.
type Store struct {
	dir    string
	mode   types.Mode
	logger zerolog.Logger
}

// NewStore creates a quarantine store rooted at dir.
func NewStore(dir string, mode types.Mode) *Store {
	return &Store{
		dir:    dir,
		mode:   mode,
		logger: logging.GetLogger("quarantine"),
	}
}

// Dir returns the quarantine directory.
func (s *Store) Dir() string { return s.dir }

// Quarantine moves the file at path into the quarantine area. The
// returned outcome is three-way: applied, skipped because the source
// is already gone (an earlier phase moved or deleted it, not an
// error), or failed. On a destination name collision the file gets a
// numeric suffix; existing quarantined files are never overwritten.
func (s *Store) Quarantine(path string, reason types.QuarantineReason) (types.QuarantineOutcome, error) {
	if _, err := os.Lstat(path); os.IsNotExist(err) {
		s.logger.Debug().Str("path", path).Str("reason", string(reason)).Msg("Source already gone, skipping")
		return types.OutcomeSkippedMissing, nil
	}

	dest := filepath.Join(s.dir, filepath.Base(path))

	if !s.mode.Mutates() {
		s.logger.Info().Str("path", path).Str("reason", string(reason)).Msg("[dry] would quarantine")
		return types.OutcomeApplied, nil
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return types.OutcomeFailed, errors.Wrapf(err, errors.ErrFileIO, "failed to create quarantine directory %s", s.dir)
	}

	dest = filesystem.UniquePath(dest)
	if err := filesystem.Move(path, dest); err != nil {
		if os.IsNotExist(err) {
			// Lost a race with an earlier phase between the stat
			// and the move.
			return types.OutcomeSkippedMissing, nil
		}
		return types.OutcomeFailed, errors.Wrapf(err, errors.ErrMove, "failed to quarantine %s", path)
	}

	s.logger.Info().
		Str("path", path).
		Str("dest", dest).
		Str("reason", string(reason)).
		Msg("File quarantined")
	return types.OutcomeApplied, nil
}
