// Package hasher computes content digests for duplicate detection.
//
// The digest is BLAKE3 over the file bytes, read in fixed-size
// chunks so arbitrarily large packages never get pulled into memory
// whole. The algorithm choice only matters for determinism and
// collision resistance at mod-library scale; the digest is an opaque
// dedup key, not a published format.
package hasher

import (
	"encoding/hex"
	"io"
	"os"

	"github.com/zeebo/blake3"

	"github.com/simstack/modtidy/pkg/errors"
)

// ChunkSize is the read size for streaming digests.
const ChunkSize = 8192

// ContentHasher computes digests of file contents.
type ContentHasher struct{}

// New creates a ContentHasher.
func New() *ContentHasher {
	return &ContentHasher{}
}

// Digest returns the hex-encoded BLAKE3 digest of the file at path.
// It fails with a FILE_IO error if the file cannot be opened or read
// mid-stream. Pure read, no side effects.
func (h *ContentHasher) Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileIO, "failed to open %s for hashing", path)
	}
	defer func() { _ = f.Close() }()

	sum := blake3.New()
	buf := make([]byte, ChunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			_, _ = sum.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrFileIO, "read failed while hashing %s", path)
		}
	}

	return hex.EncodeToString(sum.Sum(nil)), nil
}
