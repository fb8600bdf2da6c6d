// Package types defines the core data model shared across modtidy:
// discovered mod files, file kinds, duplicate groups, resource
// conflicts and quarantine tickets. It has no dependencies on other
// modtidy packages so that every component can import it freely.
package types
