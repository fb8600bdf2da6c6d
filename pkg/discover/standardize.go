package discover

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/simstack/modtidy/pkg/logging"
	"github.com/simstack/modtidy/pkg/types"
)

// StandardizeFolders renames top-level folders under root whose
// cleaned name (trimmed, spaces replaced with dashes, title-cased)
// matches a configured category name case-insensitively, so that
// "cas hair" becomes "CAS-Hair". A folder is left alone when the
// canonical name is already taken. Returns the number of folders
// renamed (counted but not performed in preview mode).
func StandardizeFolders(root string, categories []string, mode types.Mode) int {
	logger := logging.GetLogger("discover.standardize")

	entries, err := os.ReadDir(root)
	if err != nil {
		logger.Warn().Err(err).Str("root", root).Msg("Cannot list mod root for folder standardization")
		return 0
	}

	renamed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		clean := cleanFolderName(entry.Name())
		for _, category := range categories {
			if !strings.EqualFold(clean, category) {
				continue
			}
			if entry.Name() == category {
				break
			}
			dest := filepath.Join(root, category)
			if _, err := os.Lstat(dest); err == nil {
				break
			}
			if mode.Mutates() {
				if err := os.Rename(filepath.Join(root, entry.Name()), dest); err != nil {
					logger.Warn().Err(err).Str("folder", entry.Name()).Msg("Failed to standardize folder name")
					break
				}
			} else {
				logger.Info().Str("folder", entry.Name()).Str("dest", category).Msg("[dry] would rename folder")
			}
			renamed++
			break
		}
	}

	if renamed > 0 {
		logger.Info().Int("renamed", renamed).Msg("Standardized folder names")
	}
	return renamed
}

func cleanFolderName(name string) string {
	clean := strings.ReplaceAll(strings.TrimSpace(name), " ", "-")
	parts := strings.Split(clean, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
	}
	return strings.Join(parts, "-")
}
