package types

import (
	"path/filepath"
	"time"
)

// FileKind is the structural classification of a filesystem entry
// under the mod root. Kind is derived from the file extension (or
// exact name, for garbage files) and never changes.
type FileKind string

const (
	// KindArchive is a compressed container (.zip, .rar, .7z) that
	// gets expanded and then removed.
	KindArchive FileKind = "archive"

	// KindPackage is a binary game-asset container (.package).
	KindPackage FileKind = "package"

	// KindScriptPackage is a script mod container (.ts4script). It
	// shares the package lifecycle but is exempt from the DBPF
	// signature check.
	KindScriptPackage FileKind = "script-package"

	// KindGarbage is an OS metadata file (.DS_Store and friends)
	// that is deleted outright.
	KindGarbage FileKind = "garbage"

	// KindOther is everything else. Other files are left alone.
	KindOther FileKind = "other"
)

// ModFile is a filesystem entry discovered under the mod root.
//
// Identity is the path at scan time. When a later phase moves the
// file, AbsPath/RelPath are updated in place rather than a new
// ModFile being created, so decisions taken against the pre-move
// snapshot (notably the duplicate index) keep pointing at the same
// logical file.
type ModFile struct {
	// AbsPath is the current absolute path of the file.
	AbsPath string

	// RelPath is the path relative to the mod root at discovery
	// time, used for deterministic ordering and reporting.
	RelPath string

	// Name is the base name of the file.
	Name string

	// Ext is the lowercased extension, including the dot.
	Ext string

	// Size is the file size in bytes at discovery time.
	Size int64

	// Added is the file's change time, used by the inventory export
	// and the version check.
	Added time.Time

	// Kind is the structural classification, assigned at discovery.
	Kind FileKind

	// digest caches the content digest so each file is hashed at
	// most once per run. Empty until SetDigest is called.
	digest string

	// category caches the (immutable once assigned) category label.
	category string
}

// Digest returns the cached content digest, or "" if the file has
// not been hashed yet this run.
func (f *ModFile) Digest() string { return f.digest }

// SetDigest records the content digest. The first value wins; later
// calls are ignored so the digest stays a pure function of the
// pre-move snapshot.
func (f *ModFile) SetDigest(d string) {
	if f.digest == "" {
		f.digest = d
	}
}

// Category returns the assigned category label, or "" if the file
// has not been categorized yet.
func (f *ModFile) Category() string { return f.category }

// SetCategory assigns the category label once. Later calls are
// ignored; the label is immutable after assignment.
func (f *ModFile) SetCategory(c string) {
	if f.category == "" {
		f.category = c
	}
}

// MovedTo updates the file's path attributes after a successful
// move. RelPath is recomputed against the given root when possible.
func (f *ModFile) MovedTo(root, newAbs string) {
	f.AbsPath = newAbs
	f.Name = filepath.Base(newAbs)
	if rel, err := filepath.Rel(root, newAbs); err == nil {
		f.RelPath = rel
	}
}

// IsPackage reports whether the file is a binary or script package,
// i.e. participates in dedup, tiny-file and broken-mod checks.
func (f *ModFile) IsPackage() bool {
	return f.Kind == KindPackage || f.Kind == KindScriptPackage
}
