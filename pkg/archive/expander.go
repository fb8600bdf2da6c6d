// Package archive expands mod archives (.zip, .rar, .7z) and writes
// the pre-mutation backup snapshot. It is deliberately not a general
// archive library: only whole-archive extraction into a destination
// directory is supported, and extraction failure leaves the archive
// untouched for the caller to log and skip.
package archive

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/zip"
	"github.com/nwaples/rardecode/v2"

	"github.com/simstack/modtidy/pkg/errors"
)

// Expander extracts archives by extension.
type Expander struct{}

// NewExpander creates an Expander.
func NewExpander() *Expander {
	return &Expander{}
}

// Expand extracts every file in the archive at path into destDir,
// creating destDir if needed. Entry paths are confined to destDir;
// an entry that would escape it fails the extraction.
func (e *Expander) Expand(path, destDir string) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrExtract, "failed to create destination %s", destDir)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return e.expandZip(path, destDir)
	case ".rar":
		return e.expandRar(path, destDir)
	case ".7z":
		return e.expand7z(path, destDir)
	default:
		return errors.Newf(errors.ErrExtract, "unsupported archive format: %s", filepath.Base(path))
	}
}

func (e *Expander) expandZip(path, destDir string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrExtract, "failed to open zip %s", filepath.Base(path))
	}
	defer func() { _ = r.Close() }()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return errors.Wrapf(err, errors.ErrExtract, "failed to open zip entry %s", f.Name)
		}
		err = writeEntry(destDir, f.Name, rc)
		_ = rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Expander) expandRar(path, destDir string) error {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrExtract, "failed to open rar %s", filepath.Base(path))
	}
	defer func() { _ = r.Close() }()

	for {
		hdr, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, errors.ErrExtract, "failed to read rar %s", filepath.Base(path))
		}
		if hdr.IsDir {
			continue
		}
		if err := writeEntry(destDir, hdr.Name, r); err != nil {
			return err
		}
	}
}

func (e *Expander) expand7z(path, destDir string) error {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrExtract, "failed to open 7z %s", filepath.Base(path))
	}
	defer func() { _ = r.Close() }()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return errors.Wrapf(err, errors.ErrExtract, "failed to open 7z entry %s", f.Name)
		}
		err = writeEntry(destDir, f.Name, rc)
		_ = rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// writeEntry writes one archive entry under destDir, rejecting
// entry names that resolve outside it.
func writeEntry(destDir, name string, r io.Reader) error {
	dest, err := securePath(destDir, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrExtract, "failed to create directory for %s", name)
	}
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, errors.ErrExtract, "failed to create %s", dest)
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, errors.ErrExtract, "failed to write %s", dest)
	}
	return out.Close()
}

func securePath(destDir, name string) (string, error) {
	dest := filepath.Join(destDir, filepath.FromSlash(name))
	clean := filepath.Clean(dest)
	if clean != filepath.Clean(destDir) && !strings.HasPrefix(clean, filepath.Clean(destDir)+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrExtract, "archive entry escapes destination: %s", name)
	}
	return clean, nil
}
