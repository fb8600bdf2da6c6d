package filesystem

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Move relocates src to dst, creating dst's parent directory if
// needed. A plain rename is tried first; on a cross-device error the
// file is copied, synced and the source removed, matching rename
// semantics as closely as a copy can.
func Move(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isEXDEV(err) {
		return err
	}
	if err := copyFile(src, dst); err != nil {
		// Leave a partial destination out of the picture; the
		// source is still intact.
		_ = os.Remove(dst)
		return err
	}
	return os.Remove(src)
}

// Exists reports whether path exists. Any stat error other than
// "not exist" is treated as existing, so callers err on the side of
// not overwriting.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return !os.IsNotExist(err)
}

// UniquePath returns dst if nothing occupies it, otherwise the first
// free name with a numeric suffix inserted before the extension:
// "x.package" becomes "x.1.package", then "x.2.package" and so on.
// Two different-content files that map to the same target name both
// survive; nothing is ever silently overwritten.
func UniquePath(dst string) string {
	if !Exists(dst) {
		return dst
	}
	dir := filepath.Dir(dst)
	ext := filepath.Ext(dst)
	stem := strings.TrimSuffix(filepath.Base(dst), ext)
	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s.%d%s", stem, i, ext))
		if !Exists(candidate) {
			return candidate
		}
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
