package pipeline

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/simstack/modtidy/pkg/filesystem"
	"github.com/simstack/modtidy/pkg/report"
	"github.com/simstack/modtidy/pkg/resource"
	"github.com/simstack/modtidy/pkg/resourcecfg"
	"github.com/simstack/modtidy/pkg/types"
)

// packageSignature is the magic the first four bytes of a binary
// package must carry. Script packages use a different container
// format and are exempt.
const packageSignature = "DBPF"

// phaseDiscover walks the root, builds the snapshot and sweeps
// garbage files. The snapshot taken here is the one all later
// decisions are computed from.
func (p *Pipeline) phaseDiscover() error {
	snap, err := p.walker.Walk(p.opts.Root)
	if err != nil {
		return err
	}
	p.snap = snap
	p.summary.FilesDiscovered = len(snap.Files)

	for _, g := range snap.Garbage {
		if p.opts.Mode.Mutates() {
			if err := os.Remove(g.AbsPath); err != nil {
				p.logger.Warn().Err(err).Str("path", g.AbsPath).Msg("Failed to delete garbage file")
				continue
			}
		} else {
			p.logger.Info().Str("path", g.AbsPath).Msg("[dry] would delete garbage file")
		}
		p.gone[g] = true
		p.summary.GarbageRemoved++
	}
	return nil
}

// phaseTinyQuarantine isolates suspiciously small package files
// before anything else touches them.
func (p *Pipeline) phaseTinyQuarantine() {
	for _, f := range p.snap.Packages {
		if p.gone[f] || f.Size >= p.cfg.Scan.TinyThreshold {
			continue
		}
		outcome, err := p.store.Quarantine(f.AbsPath, types.ReasonUndersized)
		if err != nil {
			p.logger.Warn().Err(err).Str("path", f.AbsPath).Msg("Failed to quarantine undersized file")
			continue
		}
		if outcome != types.OutcomeFailed {
			p.gone[f] = true
		}
		if outcome == types.OutcomeApplied {
			p.summary.TinyQuarantined++
		}
	}
}

// phaseArchiveExtract expands each discovered archive into a holding
// folder under the quarantine area, originals kept, so the user has
// the unpacked contents on hand even if a later phase fails. A bad
// archive is logged and skipped, never fatal.
func (p *Pipeline) phaseArchiveExtract() {
	for _, arc := range p.snap.Archives {
		if p.gone[arc] {
			continue
		}
		stem := strings.TrimSuffix(arc.Name, filepath.Ext(arc.Name))
		dest := filepath.Join(p.store.Dir(), stem)
		if !p.opts.Mode.Mutates() {
			p.logger.Info().Str("archive", arc.Name).Str("dest", dest).Msg("[dry] would extract to holding area")
			p.summary.ArchivesExtracted++
			continue
		}
		if err := p.expander.Expand(arc.AbsPath, dest); err != nil {
			p.logger.Warn().Err(err).Str("archive", arc.Name).Msg("Failed to extract archive to holding area")
			continue
		}
		p.summary.ArchivesExtracted++
	}
}

// phaseDuplicateScan hashes every package in the pre-move snapshot
// and groups identical contents. The first file in traversal order
// becomes the keeper; all later files with the same digest become
// quarantine candidates. This must complete before any phase moves
// packages.
func (p *Pipeline) phaseDuplicateScan() {
	bar := p.progress("Scanning for duplicates", len(p.snap.Packages))
	defer bar.stop()

	byDigest := make(map[string]*types.DuplicateGroup)
	for _, f := range p.snap.Packages {
		bar.increment()
		if p.gone[f] {
			continue
		}
		digest, err := p.hasher.Digest(f.AbsPath)
		if err != nil {
			p.logger.Warn().Err(err).Str("path", f.AbsPath).Msg("Failed to hash file, skipping")
			continue
		}
		f.SetDigest(digest)

		group, seen := byDigest[digest]
		if !seen {
			group = &types.DuplicateGroup{Digest: digest, Keeper: f}
			byDigest[digest] = group
			p.groups = append(p.groups, group)
			continue
		}
		group.Duplicates = append(group.Duplicates, f)
		p.summary.DuplicatesFound++
	}

	for _, g := range p.groups {
		if len(g.Duplicates) > 0 {
			p.summary.DuplicateGroups++
		}
	}
}

// phaseArchiveMaterialize expands each archive into the category
// folder its name maps to and removes the original on success.
// Extraction failure leaves the archive untouched.
func (p *Pipeline) phaseArchiveMaterialize() {
	bar := p.progress("Extracting archives", len(p.snap.Archives))
	defer bar.stop()

	for _, arc := range p.snap.Archives {
		bar.increment()
		if p.gone[arc] {
			continue
		}
		dest := filepath.Join(p.opts.Root, p.classifier.Category(arc.AbsPath))
		if !p.opts.Mode.Mutates() {
			p.logger.Info().Str("archive", arc.Name).Str("dest", dest).Msg("[dry] would extract archive")
			p.gone[arc] = true
			p.summary.ArchivesMaterialized++
			continue
		}
		if err := p.expander.Expand(arc.AbsPath, dest); err != nil {
			p.logger.Warn().Err(err).Str("archive", arc.Name).Msg("Failed to extract archive")
			p.summary.ArchivesFailed++
			continue
		}
		if err := os.Remove(arc.AbsPath); err != nil {
			p.logger.Warn().Err(err).Str("archive", arc.Name).Msg("Extracted but failed to remove archive")
		}
		p.gone[arc] = true
		p.summary.ArchivesMaterialized++
	}
}

// phaseCategorizeAndMove assigns each package its category label and
// moves it into the matching folder directly under the root. A file
// already at its destination is left alone, which is what makes a
// second run over correct output a no-op.
func (p *Pipeline) phaseCategorizeAndMove() {
	bar := p.progress("Sorting packages", len(p.snap.Packages))
	defer bar.stop()

	for _, f := range p.snap.Packages {
		bar.increment()
		if p.gone[f] {
			continue
		}
		category := p.classifier.Category(f.AbsPath)
		f.SetCategory(category)

		dest := filepath.Join(p.opts.Root, category, f.Name)
		if dest == f.AbsPath {
			continue
		}
		if !p.opts.Mode.Mutates() {
			p.logger.Info().Str("file", f.Name).Str("category", category).Msg("[dry] would move")
			p.summary.Moved++
			continue
		}
		if !filesystem.Exists(f.AbsPath) {
			// Relocated by an earlier phase after the snapshot.
			p.gone[f] = true
			continue
		}
		dest = filesystem.UniquePath(dest)
		if err := filesystem.Move(f.AbsPath, dest); err != nil {
			p.logger.Warn().Err(err).Str("path", f.AbsPath).Msg("Failed to move package")
			continue
		}
		f.MovedTo(p.opts.Root, dest)
		p.summary.Moved++
	}
}

// phaseDuplicateQuarantine isolates every duplicate flagged by the
// pre-move hash index. The keeper of each group is never touched. A
// duplicate that a later phase already moved away is skipped.
func (p *Pipeline) phaseDuplicateQuarantine() {
	total := 0
	for _, g := range p.groups {
		total += len(g.Duplicates)
	}
	bar := p.progress("Quarantining duplicates", total)
	defer bar.stop()

	for _, g := range p.groups {
		for _, dup := range g.Duplicates {
			bar.increment()
			if p.gone[dup] {
				continue
			}
			outcome, err := p.store.Quarantine(dup.AbsPath, types.ReasonDuplicate)
			if err != nil {
				p.logger.Warn().Err(err).Str("path", dup.AbsPath).Msg("Failed to quarantine duplicate")
				continue
			}
			if outcome != types.OutcomeFailed {
				p.gone[dup] = true
			}
			if outcome == types.OutcomeApplied {
				p.summary.DuplicatesQuarantined++
			}
		}
	}
}

// phaseConflictScan walks the current tree (after the moves, so
// records reference final paths) and reports every pair of package
// files sharing a resource key. The broken-mods sweep shares the
// walk: zero-byte or unreadable package files are collected for the
// broken report.
func (p *Pipeline) phaseConflictScan() {
	index := resource.NewIndex()

	_ = filepath.WalkDir(p.opts.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		kind := p.classifier.Kind(path)
		if kind == types.KindPackage {
			keys := p.scanner.Scan(path)
			conflicts := index.Add(d.Name(), keys)
			p.summary.Conflicts = append(p.summary.Conflicts, conflicts...)
		}
		if kind == types.KindPackage || kind == types.KindScriptPackage {
			if broken := isBroken(path); broken {
				p.summary.Broken = append(p.summary.Broken, d.Name())
			}
		}
		return nil
	})

	if p.opts.Mode.Mutates() {
		if err := report.WriteConflicts(filepath.Join(p.opts.ReportDir, "TGI_Conflicts.csv"), p.summary.Conflicts); err != nil {
			p.logger.Warn().Err(err).Msg("Failed to write conflict report")
		}
		if err := report.WriteBroken(filepath.Join(p.opts.ReportDir, "BrokenMods.csv"), p.summary.Broken); err != nil {
			p.logger.Warn().Err(err).Msg("Failed to write broken-mods report")
		}
	} else {
		p.logger.Info().
			Int("conflicts", len(p.summary.Conflicts)).
			Int("broken", len(p.summary.Broken)).
			Msg("[dry] would write conflict and broken-mods reports")
	}

	if len(p.summary.Conflicts) > 0 {
		p.logger.Info().Int("conflicts", len(p.summary.Conflicts)).Msg("Resource key conflicts found")
	}
	if len(p.summary.Broken) > 0 {
		p.logger.Info().Int("broken", len(p.summary.Broken)).Msg("Broken mods found")
	}
}

// phaseCorruptionScan quarantines binary packages whose signature
// does not check out. Script packages are a different container
// format and are never signature-checked. Files an earlier phase
// already removed are skipped with a fresh existence check.
func (p *Pipeline) phaseCorruptionScan() {
	for _, f := range p.snap.Packages {
		if p.gone[f] || f.Kind != types.KindPackage {
			continue
		}
		if !filesystem.Exists(f.AbsPath) {
			p.gone[f] = true
			continue
		}
		if !isCorrupt(f.AbsPath) {
			continue
		}
		outcome, err := p.store.Quarantine(f.AbsPath, types.ReasonCorrupt)
		if err != nil {
			p.logger.Warn().Err(err).Str("path", f.AbsPath).Msg("Failed to quarantine corrupt package")
			continue
		}
		if outcome != types.OutcomeFailed {
			p.gone[f] = true
		}
		if outcome == types.OutcomeApplied {
			p.summary.CorruptQuarantined++
			p.logger.Info().Str("file", f.Name).Msg("Corrupt package quarantined")
		}
	}
}

// phaseConfigRewrite emits the load-order file covering every
// configured nesting depth.
func (p *Pipeline) phaseConfigRewrite() {
	if !p.opts.Mode.Mutates() {
		p.logger.Info().Msg("[dry] would rewrite Resource.cfg")
		return
	}
	if err := resourcecfg.Write(p.opts.Root, p.cfg.Scan.MaxDepth); err != nil {
		p.logger.Warn().Err(err).Msg("Failed to rewrite Resource.cfg")
		return
	}
	p.summary.ConfigRewritten = true
	p.logger.Info().Int("maxDepth", p.cfg.Scan.MaxDepth).Msg("Resource.cfg rewritten")
}

// phaseInventoryExport writes the full inventory in both
// serializations. Preview mode skips the export: the inventory
// describes the reorganized tree, which does not exist yet.
func (p *Pipeline) phaseInventoryExport() {
	if !p.opts.Mode.Mutates() {
		p.logger.Info().Msg("[dry] would export inventory")
		return
	}
	entries := report.BuildInventory(p.opts.Root, p.classifier)
	p.summary.InventoryCount = len(entries)
	if err := report.WriteInventoryJSON(filepath.Join(p.opts.ReportDir, "ModsInventory.json"), entries); err != nil {
		p.logger.Warn().Err(err).Msg("Failed to write JSON inventory")
	}
	if err := report.WriteInventoryCSV(filepath.Join(p.opts.ReportDir, "ModsInventory.csv"), entries); err != nil {
		p.logger.Warn().Err(err).Msg("Failed to write CSV inventory")
	}
}

// isBroken reports whether a package file is zero-byte or
// unreadable.
func isBroken(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	if info.Size() == 0 {
		return true
	}
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer func() { _ = f.Close() }()
	var one [1]byte
	if _, err := f.Read(one[:]); err != nil && err != io.EOF {
		return true
	}
	return false
}

// isCorrupt reports whether a package that exists on disk fails the
// container signature check or cannot be opened at all.
func isCorrupt(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer func() { _ = f.Close() }()

	var head [4]byte
	if _, err := io.ReadFull(f, head[:]); err != nil {
		return true
	}
	return string(head[:]) != packageSignature
}
