package types

// Mode selects whether a run mutates the filesystem or only reports
// the actions it would take.
type Mode string

const (
	// ModePreview reports intended actions without touching any
	// file. This is the default.
	ModePreview Mode = "preview"

	// ModeApply performs the real filesystem mutations.
	ModeApply Mode = "apply"
)

// Mutates reports whether the mode performs filesystem mutations.
func (m Mode) Mutates() bool { return m == ModeApply }
