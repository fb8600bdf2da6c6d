package pipeline

import "github.com/simstack/modtidy/pkg/types"

// Summary reports what a run did, or in preview mode what it would
// have done.
type Summary struct {
	Mode types.Mode

	FilesDiscovered int
	GarbageRemoved  int

	TinyQuarantined int

	ArchivesExtracted    int
	ArchivesMaterialized int
	ArchivesFailed       int

	DuplicateGroups       int
	DuplicatesFound       int
	DuplicatesQuarantined int

	Moved int

	Conflicts []types.ConflictRecord
	Broken    []string

	CorruptQuarantined int

	ConfigRewritten bool
	InventoryCount  int
}
