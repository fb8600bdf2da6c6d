package main

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/simstack/modtidy/internal/version"
	"github.com/simstack/modtidy/pkg/logging"
	"github.com/simstack/modtidy/pkg/types"
)

// rootFlags carries the persistent flag values shared by all
// subcommands.
type rootFlags struct {
	verbosity     int
	apply         bool
	auto          bool
	root          string
	quarantineDir string
	reportDir     string
	noProgress    bool
}

func (f *rootFlags) mode() types.Mode {
	if f.apply {
		return types.ModeApply
	}
	return types.ModePreview
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:     "modtidy",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(flags.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	desktop := xdg.UserDirs.Desktop
	rootCmd.PersistentFlags().CountVarP(&flags.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&flags.apply, "apply", false, MsgFlagApply)
	rootCmd.PersistentFlags().BoolVar(&flags.auto, "auto", false, MsgFlagAuto)
	rootCmd.PersistentFlags().StringVar(&flags.root, "root", defaultModsRoot(), MsgFlagRoot)
	rootCmd.PersistentFlags().StringVar(&flags.quarantineDir, "quarantine-dir", filepath.Join(desktop, "Sims4_Mod_Quarantine"), MsgFlagQuarantine)
	rootCmd.PersistentFlags().StringVar(&flags.reportDir, "report-dir", desktop, MsgFlagReportDir)
	rootCmd.PersistentFlags().BoolVar(&flags.noProgress, "no-progress", false, MsgFlagNoProgress)

	rootCmd.AddCommand(newFixCmd(flags))
	rootCmd.AddCommand(newInventoryCmd(flags))
	rootCmd.AddCommand(newConflictsCmd(flags))
	rootCmd.AddCommand(newBrokenCmd(flags))
	rootCmd.AddCommand(newVersionsCmd(flags))
	rootCmd.AddCommand(newGenConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func defaultModsRoot() string {
	return filepath.Join(xdg.Home, "Documents", "Electronic Arts", "The Sims 4", "Mods")
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("modtidy version %s\n", version.Version)
			fmt.Printf("  commit: %s\n", version.Commit)
			fmt.Printf("  built:  %s\n", version.Date)
		},
	}
}
