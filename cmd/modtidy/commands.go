package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simstack/modtidy/pkg/classify"
	"github.com/simstack/modtidy/pkg/config"
	"github.com/simstack/modtidy/pkg/discover"
	"github.com/simstack/modtidy/pkg/logging"
	"github.com/simstack/modtidy/pkg/report"
	"github.com/simstack/modtidy/pkg/resource"
	"github.com/simstack/modtidy/pkg/types"
	"github.com/simstack/modtidy/pkg/versions"
)

// newInventoryCmd exports the current inventory without mutating
// anything. Unlike fix, this command always writes the report files.
func newInventoryCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "inventory",
		Short: "Export the mod inventory as JSON and CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.root)
			if err != nil {
				return err
			}
			classifier := classify.New(cfg)
			if _, err := discover.NewWalker(classifier).Walk(flags.root); err != nil {
				return err
			}

			entries := report.BuildInventory(flags.root, classifier)
			jsonPath := filepath.Join(flags.reportDir, "ModsInventory.json")
			csvPath := filepath.Join(flags.reportDir, "ModsInventory.csv")
			if err := report.WriteInventoryJSON(jsonPath, entries); err != nil {
				return err
			}
			if err := report.WriteInventoryCSV(csvPath, entries); err != nil {
				return err
			}
			fmt.Printf("Exported %d mods to %s and %s\n", len(entries), jsonPath, csvPath)
			return nil
		},
	}
}

// newConflictsCmd runs only the resource conflict scan over the
// current tree and writes the conflict report.
func newConflictsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts",
		Short: "Scan packages for resource key conflicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.root)
			if err != nil {
				return err
			}
			classifier := classify.New(cfg)
			if _, err := discover.NewWalker(classifier).Walk(flags.root); err != nil {
				return err
			}

			scanner := resource.NewScanner()
			index := resource.NewIndex()
			var conflicts []types.ConflictRecord
			_ = filepath.WalkDir(flags.root, func(path string, d fs.DirEntry, err error) error {
				if err != nil || d.IsDir() {
					return nil
				}
				if classifier.Kind(path) != types.KindPackage {
					return nil
				}
				conflicts = append(conflicts, index.Add(d.Name(), scanner.Scan(path))...)
				return nil
			})

			outPath := filepath.Join(flags.reportDir, "TGI_Conflicts.csv")
			if err := report.WriteConflicts(outPath, conflicts); err != nil {
				return err
			}
			if len(conflicts) == 0 {
				fmt.Println("No resource conflicts found.")
			} else {
				fmt.Printf("Found %d conflicts. Exported to %s\n", len(conflicts), outPath)
			}
			return nil
		},
	}
}

// newBrokenCmd reports zero-byte and unreadable package files.
func newBrokenCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "broken",
		Short: "Report zero-byte or unreadable mod files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.root)
			if err != nil {
				return err
			}
			classifier := classify.New(cfg)
			snap, err := discover.NewWalker(classifier).Walk(flags.root)
			if err != nil {
				return err
			}

			var broken []string
			for _, f := range snap.Packages {
				if f.Size == 0 || !readable(f.AbsPath) {
					broken = append(broken, f.Name)
				}
			}

			outPath := filepath.Join(flags.reportDir, "BrokenMods.csv")
			if err := report.WriteBroken(outPath, broken); err != nil {
				return err
			}
			if len(broken) == 0 {
				fmt.Println("No broken mods found.")
			} else {
				fmt.Printf("Found %d broken mods. Exported to %s\n", len(broken), outPath)
			}
			return nil
		},
	}
}

// newVersionsCmd refreshes the version feed and reports outdated
// mods; --download also fetches replacements.
func newVersionsCmd(flags *rootFlags) *cobra.Command {
	var download bool

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "Check installed mods against the known-versions feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.versions")
			cfg, err := config.Load(flags.root)
			if err != nil {
				return err
			}
			classifier := classify.New(cfg)
			snap, err := discover.NewWalker(classifier).Walk(flags.root)
			if err != nil {
				return err
			}

			oracle := versions.NewOracle()
			feedPath := filepath.Join(flags.reportDir, "KnownModVersions.json")
			if err := oracle.Refresh(cfg.Versions.FeedURL, feedPath); err != nil {
				logger.Warn().Err(err).Msg("Failed to refresh version feed")
			}
			feed, err := versions.LoadFeed(feedPath)
			if err != nil {
				return err
			}

			outdated := oracle.Check(snap, feed)
			if len(outdated) == 0 {
				fmt.Println("All mods are up to date.")
				return nil
			}
			for _, o := range outdated {
				fmt.Printf(" - %s: installed %s, latest %s\n", o.File.Name, o.Installed.Format("2006-01-02"), o.Latest.Format("2006-01-02"))
				if download && o.URL != "" {
					if err := oracle.Download(o.URL, o.File.AbsPath); err != nil {
						logger.Warn().Err(err).Str("name", o.File.Name).Msg("Failed to download update")
						continue
					}
					fmt.Printf("   downloaded update for %s\n", o.File.Name)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&download, "download", false, "Download updates for outdated mods")
	return cmd
}

// newGenConfigCmd prints the built-in defaults so users can seed an
// override file.
func newGenConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genconfig",
		Short: "Print the default configuration as TOML",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Print(config.GetDefaultConfigContent())
		},
	}
}

func readable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}
