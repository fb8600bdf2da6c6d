package types

// QuarantineReason tags why a file is being isolated.
type QuarantineReason string

const (
	ReasonDuplicate  QuarantineReason = "duplicate"
	ReasonUndersized QuarantineReason = "undersized"
	ReasonCorrupt    QuarantineReason = "corrupt"
)

// QuarantineOutcome is the three-way result of a quarantine attempt.
// The already-gone case is an expected outcome, not an error: an
// earlier phase may have moved or deleted the source file.
type QuarantineOutcome string

const (
	// OutcomeApplied means the file was moved into quarantine (or,
	// in preview mode, would have been).
	OutcomeApplied QuarantineOutcome = "applied"

	// OutcomeSkippedMissing means the source file no longer exists.
	OutcomeSkippedMissing QuarantineOutcome = "skipped-already-gone"

	// OutcomeFailed means the move itself failed.
	OutcomeFailed QuarantineOutcome = "failed"
)
