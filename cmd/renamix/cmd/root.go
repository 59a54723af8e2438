// Package cmd implements the renamix command-line interface.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"renamix/internal/journal"
	"renamix/internal/output"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

// Global flags.
var (
	journalDir string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "renamix",
	Short: "Batch file renaming with regex capture, preview, and undo",
	Long: `renamix renames files by matching their names with a regular
expression and composing new names from a template of positional ({})
and named ({group}) placeholders. Every applied run is recorded in an
append-only journal, so any run can be undone, and undo itself can be
undone.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("renamix %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&journalDir, "journal-dir", journal.DefaultConfig().Directory, "directory holding the operation journal")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "detailed output")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openJournal opens the operation journal at the configured location.
func openJournal() (*journal.Log, error) {
	config := journal.DefaultConfig()
	config.Directory = journalDir
	log, err := journal.Open(config)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return log, nil
}

// newOutput builds the report renderer honoring the global flags.
func newOutput() *output.Output {
	config := output.DefaultConfig()
	config.Verbose = verbose
	return output.New(config)
}
