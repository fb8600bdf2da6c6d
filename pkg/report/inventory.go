package report

import (
	"io/fs"
	"math"
	"path/filepath"
	"strconv"
	"time"

	"github.com/simstack/modtidy/pkg/classify"
	"github.com/simstack/modtidy/pkg/logging"
	"github.com/simstack/modtidy/pkg/types"
)

// InventoryEntry is one package or script file in the inventory
// listing.
type InventoryEntry struct {
	Name     string  `json:"name"`
	Path     string  `json:"path"`
	SizeKB   float64 `json:"size_kb"`
	Category string  `json:"category"`
	Added    string  `json:"added"`
}

func (e InventoryEntry) record() []string {
	return []string{
		e.Name,
		e.Path,
		strconv.FormatFloat(e.SizeKB, 'f', 2, 64),
		e.Category,
		e.Added,
	}
}

// BuildInventory walks root and lists every package and script file
// with its current location, size in kilobytes (rounded to two
// decimals), category and timestamp. It re-walks rather than reusing
// the discovery snapshot so the listing reflects final, post-move
// paths.
func BuildInventory(root string, classifier *classify.Classifier) []InventoryEntry {
	logger := logging.GetLogger("report.inventory")

	var entries []InventoryEntry
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Skipping unreadable entry in inventory")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		kind := classifier.Kind(path)
		if kind != types.KindPackage && kind != types.KindScriptPackage {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Skipping file that failed stat")
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		sizeKB := float64(info.Size()) / 1024
		entries = append(entries, InventoryEntry{
			Name:     d.Name(),
			Path:     rel,
			SizeKB:   roundTo2(sizeKB),
			Category: classifier.Category(path),
			Added:    info.ModTime().Format(time.RFC3339),
		})
		return nil
	})
	return entries
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
