/*
Copyright © 2026 Leonardo Cervantes (LeonardoCerv)
*/

// root.go defines the root command and CLI execution entry point.
//
// Design: PersistentPreRunE opens the store lazily - only commands that
// need it trigger initialisation. Bootstrap commands (config, languages)
// work without a data directory existing. The noStoreCommands map
// controls which commands skip initialisation.

package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/LeonardoCerv/scratch-space/internal/log"
	"github.com/spf13/cobra"
)

// noStoreCommands lists commands that bypass store initialisation.
var noStoreCommands = map[string]bool{
	"config":    true,
	"languages": true,
}

var rootCmd = &cobra.Command{
	Use:   "scratch",
	Short: "Persistent scratchpads with history, tags, and crash recovery",
	Long:  `A local scratch document store: quick throwaway notes and code snippets that survive restarts, with change history, tagging, and automatic backups.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if output != "" && !slices.Contains(validOutputFormats, output) {
			return fmt.Errorf("invalid output format: %s (valid: %v)", output, validOutputFormats)
		}

		if !noStoreCommands[topLevelCmdName(cmd)] {
			if err := initApp(); err != nil {
				if JSON() {
					_ = PrintJSON(map[string]string{"error": err.Error()})
					cmd.SilenceErrors = true
					cmd.SilenceUsage = true
				}
				return fmt.Errorf("opening store: %w", err)
			}
		}
		return nil
	},
}

// topLevelCmdName returns the name of the top-level command (direct
// child of root). For "scratch tag add id work", returns "tag".
func topLevelCmdName(cmd *cobra.Command) string {
	for cmd.HasParent() && cmd.Parent().HasParent() {
		cmd = cmd.Parent()
	}
	return cmd.Name()
}

// Execute runs the root command and handles process lifecycle.
// Opens audit logging, executes the command, and closes the store
// before exit. Exit code 1 indicates error.
func Execute() {
	// Initialise audit logger (warn if it fails, but continue)
	if err := log.Open(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: audit log unavailable: %v\n", err)
	}
	defer log.Close()

	err := rootCmd.Execute()
	closeApp()

	if err != nil {
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing.
func RootCmd() *cobra.Command {
	return rootCmd
}
