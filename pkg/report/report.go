// Package report writes the run's output artifacts: the resource
// conflict report, the broken-mods report and the full inventory in
// its two interchangeable serializations (JSON and CSV).
package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"sort"

	"github.com/simstack/modtidy/pkg/errors"
	"github.com/simstack/modtidy/pkg/types"
)

// WriteConflicts writes the conflict report as CSV with a
// "mod1,mod2" header, one row per conflicting pair. Rows are sorted
// so the report is stable across runs. With nothing to report, no
// file is created.
func WriteConflicts(path string, conflicts []types.ConflictRecord) error {
	if len(conflicts) == 0 {
		return nil
	}
	sorted := make([]types.ConflictRecord, len(conflicts))
	copy(sorted, conflicts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].First != sorted[j].First {
			return sorted[i].First < sorted[j].First
		}
		return sorted[i].Second < sorted[j].Second
	})

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrReport, "failed to create conflict report %s", path)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"mod1", "mod2"}); err != nil {
		return errors.Wrap(err, errors.ErrReport, "failed to write conflict report header")
	}
	for _, c := range sorted {
		if err := w.Write([]string{c.First, c.Second}); err != nil {
			return errors.Wrap(err, errors.ErrReport, "failed to write conflict report row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, errors.ErrReport, "failed to flush conflict report")
	}
	return f.Close()
}

// WriteBroken writes the broken-mods report: a single "broken_mods"
// header column followed by one file name per row. With nothing to
// report, no file is created.
func WriteBroken(path string, names []string) error {
	if len(names) == 0 {
		return nil
	}
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrReport, "failed to create broken-mods report %s", path)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"broken_mods"}); err != nil {
		return errors.Wrap(err, errors.ErrReport, "failed to write broken-mods header")
	}
	for _, name := range sorted {
		if err := w.Write([]string{name}); err != nil {
			return errors.Wrap(err, errors.ErrReport, "failed to write broken-mods row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, errors.ErrReport, "failed to flush broken-mods report")
	}
	return f.Close()
}

// WriteInventoryJSON writes the inventory as indented JSON.
func WriteInventoryJSON(path string, entries []InventoryEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrReport, "failed to marshal inventory")
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrReport, "failed to write inventory %s", path)
	}
	return nil
}

// WriteInventoryCSV writes the inventory as CSV with the same
// columns as the JSON serialization.
func WriteInventoryCSV(path string, entries []InventoryEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrReport, "failed to create inventory %s", path)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"name", "path", "size_kb", "category", "added"}); err != nil {
		return errors.Wrap(err, errors.ErrReport, "failed to write inventory header")
	}
	for _, e := range entries {
		if err := w.Write(e.record()); err != nil {
			return errors.Wrap(err, errors.ErrReport, "failed to write inventory row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, errors.ErrReport, "failed to flush inventory")
	}
	return f.Close()
}
