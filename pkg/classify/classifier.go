// Package classify maps filesystem entries to a file kind (archive,
// package, script-package, garbage, other) and, for sortable files,
// to a category folder label.
//
// Category labeling walks an ordered rule list and stops at the
// first rule with a matching keyword: rule order comes straight from
// the configuration and is significant. This is a first-match
// policy, not a best-match one.
package classify

import (
	"path/filepath"
	"strings"

	"github.com/simstack/modtidy/pkg/config"
	"github.com/simstack/modtidy/pkg/types"
)

// Unsorted is the catch-all category for files no rule matches.
const Unsorted = "_Unsorted"

// Classifier classifies files by extension and filename keywords.
// All tables are fixed at construction; a Classifier is safe to
// share for the duration of a run.
type Classifier struct {
	rules       []config.CategoryRule
	archiveExts map[string]bool
	packageExts map[string]bool
	scriptExts  map[string]bool
	garbage     map[string]bool
}

// New builds a Classifier from the loaded configuration.
func New(cfg *config.Config) *Classifier {
	c := &Classifier{
		rules:       cfg.Categories,
		archiveExts: toSet(cfg.Extensions.Archive),
		packageExts: toSet(cfg.Extensions.Package),
		scriptExts:  toSet(cfg.Extensions.Script),
		garbage:     make(map[string]bool, len(cfg.Garbage.Names)),
	}
	for _, name := range cfg.Garbage.Names {
		c.garbage[name] = true
	}
	return c
}

// Kind returns the structural classification for the file at path.
// Garbage is matched on the exact base name, everything else on the
// lowercased extension.
func (c *Classifier) Kind(path string) types.FileKind {
	name := filepath.Base(path)
	if c.garbage[name] {
		return types.KindGarbage
	}
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case c.archiveExts[ext]:
		return types.KindArchive
	case c.scriptExts[ext]:
		return types.KindScriptPackage
	case c.packageExts[ext]:
		return types.KindPackage
	default:
		return types.KindOther
	}
}

// Category returns the category folder label for the file at path.
// Keywords starting with a dot match the extension exactly; all
// others match as case-insensitive substrings of the base name. The
// first matching rule wins; unmatched files fall into Unsorted.
func (c *Classifier) Category(path string) string {
	name := strings.ToLower(filepath.Base(path))
	ext := strings.ToLower(filepath.Ext(path))
	for _, rule := range c.rules {
		for _, keyword := range rule.Keywords {
			if strings.HasPrefix(keyword, ".") {
				if ext == keyword {
					return rule.Name
				}
			} else if strings.Contains(name, keyword) {
				return rule.Name
			}
		}
	}
	return Unsorted
}

// CategoryNames returns the configured category names in rule order,
// used by folder-name standardization.
func (c *Classifier) CategoryNames() []string {
	names := make([]string, 0, len(c.rules))
	for _, rule := range c.rules {
		names = append(names, rule.Name)
	}
	return names
}

func toSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		set[strings.ToLower(e)] = true
	}
	return set
}
