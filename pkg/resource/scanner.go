// Package resource extracts resource-identifier tokens from binary
// package files and indexes them for conflict detection.
//
// The extraction is a heuristic signature scan, not a DBPF parser:
// it looks for a fixed 4-byte marker anywhere in the file body and
// takes a fixed window starting at each hit as one key. Overlapping
// hits and false positives are accepted as the cost of simplicity,
// so key equality is a proxy for resource identity, never proof.
package resource

import (
	"bytes"
	"os"

	"github.com/rs/zerolog"

	"github.com/simstack/modtidy/pkg/logging"
	"github.com/simstack/modtidy/pkg/types"
)

const (
	// marker is the byte sequence that precedes a resource name
	// table entry in package files.
	marker = "TGIN"

	// keyWidth is the window, in bytes, taken from the start of
	// each marker hit. Hits close to the end of the file yield a
	// shorter key, which is kept as-is.
	keyWidth = 16
)

// Key is one extracted resource token.
type Key string

// Scanner extracts resource keys from package files.
type Scanner struct {
	logger zerolog.Logger
}

// NewScanner creates a resource key scanner.
func NewScanner() *Scanner {
	return &Scanner{
		logger: logging.GetLogger("resource.scanner"),
	}
}

// Scan returns the set of resource keys found in the file at path.
// A missing or unreadable file yields an empty set and no error: a
// file that vanished mid-run must never abort the conflict scan.
func (s *Scanner) Scan(path string) map[Key]struct{} {
	keys := make(map[Key]struct{})

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn().Err(err).Str("path", path).Msg("Cannot read package, treating as empty")
		}
		return keys
	}

	needle := []byte(marker)
	offset := 0
	for {
		idx := bytes.Index(data[offset:], needle)
		if idx < 0 {
			break
		}
		idx += offset
		end := idx + keyWidth
		if end > len(data) {
			end = len(data)
		}
		keys[Key(data[idx:end])] = struct{}{}
		// Restart one byte past the hit so overlapping markers are
		// all seen.
		offset = idx + 1
	}

	return keys
}

// Index maps each seen key to the package that first claimed it and
// records a ConflictRecord for every later claimant. The pipeline
// owns one Index per run; it is not safe for concurrent use.
type Index struct {
	owners map[Key]string
}

// NewIndex creates an empty conflict index.
func NewIndex() *Index {
	return &Index{owners: make(map[Key]string)}
}

// Add registers the keys of one package and returns the conflicts it
// introduced: one record per key already owned by another package.
// Keys shared with itself (the same path added twice) are ignored.
func (ix *Index) Add(pkgName string, keys map[Key]struct{}) []types.ConflictRecord {
	var conflicts []types.ConflictRecord
	for key := range keys {
		owner, taken := ix.owners[key]
		if !taken {
			ix.owners[key] = pkgName
			continue
		}
		if owner == pkgName {
			continue
		}
		conflicts = append(conflicts, types.ConflictRecord{First: pkgName, Second: owner})
	}
	return conflicts
}
