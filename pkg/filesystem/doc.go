// Package filesystem provides the small set of filesystem
// primitives the pipeline mutates through: a move that survives
// crossing filesystem boundaries (the quarantine area commonly lives
// on a different volume than the mod root) and a collision-safe
// destination-name chooser.
package filesystem
