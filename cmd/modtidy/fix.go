package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/simstack/modtidy/pkg/archive"
	"github.com/simstack/modtidy/pkg/config"
	"github.com/simstack/modtidy/pkg/discover"
	"github.com/simstack/modtidy/pkg/logging"
	"github.com/simstack/modtidy/pkg/pipeline"
	"github.com/simstack/modtidy/pkg/versions"
)

func newFixCmd(flags *rootFlags) *cobra.Command {
	var skipBackup bool
	var skipVersions bool

	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Run the full reconciliation pipeline",
		Long: `fix runs the complete reconciliation sequence over the mod root:
garbage sweep, tiny-file quarantine, archive extraction, duplicate
detection, category sorting, conflict and corruption scans, load-order
rewrite and inventory export. Without --apply nothing is changed and
every intended action is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.root)
			if err != nil {
				return err
			}

			mode := flags.mode()
			fmt.Printf("Mods dir:   %s\n", flags.root)
			fmt.Printf("Quarantine: %s\n", flags.quarantineDir)
			fmt.Printf("Reports:    %s\n\n", flags.reportDir)

			p := pipeline.New(cfg, pipeline.Options{
				Root:          flags.root,
				Mode:          mode,
				QuarantineDir: flags.quarantineDir,
				ReportDir:     flags.reportDir,
				ShowProgress:  !flags.noProgress && !flags.auto,
			})

			discover.StandardizeFolders(flags.root, p.Classifier().CategoryNames(), mode)

			if mode.Mutates() && !skipBackup {
				backupPath := filepath.Join(flags.reportDir, fmt.Sprintf("ModsBackup-%s.zip", time.Now().Format("20060102")))
				if err := archive.NewBackupWriter().Write(flags.root, backupPath); err != nil {
					// No mutation has happened yet; a failed backup
					// stops the run rather than proceeding uncovered.
					return err
				}
				fmt.Printf("Backup written to %s\n", backupPath)
			} else if !mode.Mutates() {
				fmt.Println("Dry-run: would create backup ZIP.")
			}

			summary, err := p.Run()
			if err != nil {
				return err
			}

			if mode.Mutates() && !skipVersions {
				runVersionCheck(flags, cfg, p)
			}

			printSummary(summary)
			if !flags.auto {
				if mode.Mutates() {
					fmt.Println("\nAll done! Changes applied.")
				} else {
					fmt.Println("\nAll done! No files changed.")
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipBackup, "skip-backup", false, "Skip the pre-run backup ZIP")
	cmd.Flags().BoolVar(&skipVersions, "skip-versions", false, "Skip the mod version check")
	return cmd
}

// runVersionCheck refreshes the known-versions feed, reports
// outdated mods and downloads replacements where the feed names a
// URL. Every failure in here is logged and swallowed; the version
// check never fails a run.
func runVersionCheck(flags *rootFlags, cfg *config.Config, p *pipeline.Pipeline) {
	logger := logging.GetLogger("cmd.versions")
	oracle := versions.NewOracle()

	feedPath := filepath.Join(flags.reportDir, "KnownModVersions.json")
	if err := oracle.Refresh(cfg.Versions.FeedURL, feedPath); err != nil {
		logger.Warn().Err(err).Msg("Failed to refresh version feed")
	}
	feed, err := versions.LoadFeed(feedPath)
	if err != nil {
		logger.Warn().Err(err).Msg("No usable version feed, skipping version check")
		return
	}

	walker := discover.NewWalker(p.Classifier())
	snap, err := walker.Walk(flags.root)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to rescan for version check")
		return
	}

	outdated := oracle.Check(snap, feed)
	if len(outdated) == 0 {
		fmt.Println("All mods are up to date.")
		return
	}

	fmt.Println("\nOutdated mods found:")
	for _, o := range outdated {
		fmt.Printf(" - %s: installed %s, latest %s\n", o.File.Name, o.Installed.Format("2006-01-02"), o.Latest.Format("2006-01-02"))
		if o.URL == "" {
			continue
		}
		if err := oracle.Download(o.URL, o.File.AbsPath); err != nil {
			logger.Warn().Err(err).Str("name", o.File.Name).Msg("Failed to download update")
			continue
		}
		fmt.Printf("   downloaded update for %s\n", o.File.Name)
	}
}

func printSummary(s *pipeline.Summary) {
	fmt.Printf("\nFiles discovered:       %d\n", s.FilesDiscovered)
	fmt.Printf("Garbage removed:        %d\n", s.GarbageRemoved)
	fmt.Printf("Tiny files quarantined: %d\n", s.TinyQuarantined)
	fmt.Printf("Archives extracted:     %d (failed: %d)\n", s.ArchivesMaterialized, s.ArchivesFailed)
	fmt.Printf("Duplicates quarantined: %d (of %d found)\n", s.DuplicatesQuarantined, s.DuplicatesFound)
	fmt.Printf("Packages moved:         %d\n", s.Moved)
	fmt.Printf("Resource conflicts:     %d\n", len(s.Conflicts))
	fmt.Printf("Broken mods:            %d\n", len(s.Broken))
	fmt.Printf("Corrupt quarantined:    %d\n", s.CorruptQuarantined)
}
