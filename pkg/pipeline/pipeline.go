// Package pipeline orchestrates the mod library reconciliation run.
//
// The run is a fixed sequence of named phases executed exactly once,
// in order, by a single orchestrator. The ordering is a correctness
// invariant, not a style choice: the duplicate scan hashes the file
// snapshot taken at discovery, before any phase moves packages or
// materializes archives into new locations. Moving first and hashing
// second would hash stale paths and silently corrupt the dedup
// result. Later phases consult the snapshot's decisions but re-check
// existence before acting, because an earlier phase may already have
// relocated a given file.
//
// Failure policy: only a missing mod root aborts the run. Every
// per-file failure (unreadable file, failed extraction, vanished
// path) is logged and skipped.
package pipeline

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/simstack/modtidy/pkg/archive"
	"github.com/simstack/modtidy/pkg/classify"
	"github.com/simstack/modtidy/pkg/config"
	"github.com/simstack/modtidy/pkg/discover"
	"github.com/simstack/modtidy/pkg/hasher"
	"github.com/simstack/modtidy/pkg/logging"
	"github.com/simstack/modtidy/pkg/quarantine"
	"github.com/simstack/modtidy/pkg/resource"
	"github.com/simstack/modtidy/pkg/types"
)

// Phase names one step of the reconciliation sequence.
type Phase string

const (
	PhaseDiscover            Phase = "Discover"
	PhaseTinyQuarantine      Phase = "TinyQuarantine"
	PhaseArchiveExtract      Phase = "ArchiveExtract"
	PhaseDuplicateScan       Phase = "DuplicateScan"
	PhaseArchiveMaterialize  Phase = "ArchiveMaterialize"
	PhaseCategorizeAndMove   Phase = "CategorizeAndMove"
	PhaseDuplicateQuarantine Phase = "DuplicateQuarantine"
	PhaseConflictScan        Phase = "ConflictScan"
	PhaseCorruptionScan      Phase = "CorruptionScan"
	PhaseConfigRewrite       Phase = "ConfigRewrite"
	PhaseInventoryExport     Phase = "InventoryExport"
	PhaseDone                Phase = "Done"
)

// Phases is the complete run sequence in execution order.
var Phases = []Phase{
	PhaseDiscover,
	PhaseTinyQuarantine,
	PhaseArchiveExtract,
	PhaseDuplicateScan,
	PhaseArchiveMaterialize,
	PhaseCategorizeAndMove,
	PhaseDuplicateQuarantine,
	PhaseConflictScan,
	PhaseCorruptionScan,
	PhaseConfigRewrite,
	PhaseInventoryExport,
	PhaseDone,
}

// Options configures one pipeline run.
type Options struct {
	// Root is the mod directory tree being reconciled.
	Root string

	// Mode selects preview or apply.
	Mode types.Mode

	// QuarantineDir is where suspect files are isolated.
	QuarantineDir string

	// ReportDir is where the conflict, broken-mods and inventory
	// reports are written.
	ReportDir string

	// ShowProgress enables terminal progress bars on the scanning
	// and moving loops.
	ShowProgress bool
}

// Pipeline runs the reconciliation sequence. One Pipeline value
// serves one run; it owns the in-memory hash and resource indices
// for that run and supports no concurrent use.
type Pipeline struct {
	cfg        *config.Config
	opts       Options
	classifier *classify.Classifier
	walker     *discover.Walker
	hasher     *hasher.ContentHasher
	scanner    *resource.Scanner
	expander   *archive.Expander
	store      *quarantine.Store
	logger     zerolog.Logger

	// Run state, reset by Run.
	snap *discover.Snapshot

	// gone marks snapshot files that no longer live at their
	// recorded path: quarantined, deleted or consumed by an earlier
	// phase. In preview mode the same marks are made so the
	// reported plan matches what apply mode would do.
	gone map[*types.ModFile]bool

	groups  []*types.DuplicateGroup
	summary *Summary
}

// New builds a Pipeline from configuration and options.
func New(cfg *config.Config, opts Options) *Pipeline {
	classifier := classify.New(cfg)
	return &Pipeline{
		cfg:        cfg,
		opts:       opts,
		classifier: classifier,
		walker:     discover.NewWalker(classifier),
		hasher:     hasher.New(),
		scanner:    resource.NewScanner(),
		expander:   archive.NewExpander(),
		store:      quarantine.NewStore(opts.QuarantineDir, opts.Mode),
		logger:     logging.GetLogger("pipeline"),
	}
}

// Classifier exposes the pipeline's classifier for callers that
// need category names (folder standardization, inventory).
func (p *Pipeline) Classifier() *classify.Classifier { return p.classifier }

// Run executes all phases in order and returns the run summary.
// The only error it can return is the fatal missing-root condition
// from the discovery phase.
func (p *Pipeline) Run() (*Summary, error) {
	defer logging.LogDuration(time.Now(), "reconciliation")

	p.gone = make(map[*types.ModFile]bool)
	p.groups = nil
	p.summary = &Summary{Mode: p.opts.Mode}

	for _, phase := range Phases {
		p.logger.Debug().Str("phase", string(phase)).Msg("Phase starting")
		if err := p.runPhase(phase); err != nil {
			return nil, err
		}
	}

	return p.summary, nil
}

// runPhase dispatches one phase. Phases other than Discover never
// return an error; their failures are per-file, logged and skipped.
func (p *Pipeline) runPhase(phase Phase) error {
	switch phase {
	case PhaseDiscover:
		return p.phaseDiscover()
	case PhaseTinyQuarantine:
		p.phaseTinyQuarantine()
	case PhaseArchiveExtract:
		p.phaseArchiveExtract()
	case PhaseDuplicateScan:
		p.phaseDuplicateScan()
	case PhaseArchiveMaterialize:
		p.phaseArchiveMaterialize()
	case PhaseCategorizeAndMove:
		p.phaseCategorizeAndMove()
	case PhaseDuplicateQuarantine:
		p.phaseDuplicateQuarantine()
	case PhaseConflictScan:
		p.phaseConflictScan()
	case PhaseCorruptionScan:
		p.phaseCorruptionScan()
	case PhaseConfigRewrite:
		p.phaseConfigRewrite()
	case PhaseInventoryExport:
		p.phaseInventoryExport()
	case PhaseDone:
		p.logger.Info().
			Str("mode", string(p.opts.Mode)).
			Int("files", p.summary.FilesDiscovered).
			Int("duplicates", p.summary.DuplicatesFound).
			Int("conflicts", len(p.summary.Conflicts)).
			Msg("Reconciliation complete")
	}
	return nil
}
