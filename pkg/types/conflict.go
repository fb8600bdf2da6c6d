package types

// ConflictRecord names two package files that share a resource key.
// Records are created during the conflict scan, written once to the
// conflict report and never mutated. The pair is unordered; First is
// simply the later-scanned file and Second the established owner.
type ConflictRecord struct {
	First  string
	Second string
}
