package types

// DuplicateGroup collects files sharing one content digest. The
// keeper is the first file seen in traversal order; only the later
// arrivals are quarantine candidates, never the keeper.
type DuplicateGroup struct {
	Digest     string
	Keeper     *ModFile
	Duplicates []*ModFile
}
