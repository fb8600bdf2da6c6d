// Package testutil provides helpers for building throwaway mod
// trees in tests.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates a file at root/rel with the given contents,
// creating parent directories as needed, and returns its absolute
// path.
func WriteFile(t *testing.T, root, rel string, data []byte) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

// PackageBytes returns size bytes of synthetic package content. When
// valid is true the content starts with the DBPF container
// signature; otherwise it starts with junk. The filler byte makes it
// easy to produce distinct contents: different fillers give
// different digests.
func PackageBytes(size int, valid bool, filler byte) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = filler
	}
	if valid && size >= 4 {
		copy(data, "DBPF")
	} else if !valid && size >= 4 {
		copy(data, "JUNK")
	}
	return data
}

// PackageWithKeys returns valid package content embedding one
// resource name table marker per given key body. Each body is padded
// to the 12 bytes that follow the 4-byte marker, so two packages
// built with the same bodies share identical extracted keys.
func PackageWithKeys(size int, filler byte, bodies ...string) []byte {
	var buf bytes.Buffer
	buf.WriteString("DBPF")
	for _, body := range bodies {
		buf.WriteString("TGIN")
		padded := make([]byte, 12)
		copy(padded, body)
		buf.Write(padded)
	}
	for buf.Len() < size {
		buf.WriteByte(filler)
	}
	return buf.Bytes()
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
