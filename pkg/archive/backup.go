package archive

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"

	"github.com/simstack/modtidy/pkg/errors"
	"github.com/simstack/modtidy/pkg/logging"
)

// BackupWriter snapshots the entire mod tree into a single zip file
// before any mutation begins, so a prior state stays recoverable.
type BackupWriter struct{}

// NewBackupWriter creates a BackupWriter.
func NewBackupWriter() *BackupWriter {
	return &BackupWriter{}
}

// Write archives every regular file under root into a deflated zip
// at dest. Files that vanish or fail to read mid-walk are logged and
// left out rather than failing the backup.
func (b *BackupWriter) Write(root, dest string) error {
	logger := logging.GetLogger("archive.backup")

	out, err := os.Create(dest)
	if err != nil {
		return errors.Wrapf(err, errors.ErrBackup, "failed to create backup file %s", dest)
	}
	defer func() { _ = out.Close() }()

	zw := zip.NewWriter(out)

	count := 0
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Skipping unreadable entry in backup")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if err := addToZip(zw, path, rel); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Skipping file that failed to archive")
			return nil
		}
		count++
		return nil
	})
	if walkErr != nil {
		_ = zw.Close()
		return errors.Wrap(walkErr, errors.ErrBackup, "backup walk failed")
	}

	if err := zw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrBackup, "failed to finalize backup zip")
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, errors.ErrBackup, "failed to close backup file")
	}

	logger.Info().Int("files", count).Str("dest", dest).Msg("Backup written")
	return nil
}

func addToZip(zw *zip.Writer, path, rel string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	w, err := zw.Create(filepath.ToSlash(rel))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, in)
	return err
}
