/*
Copyright © 2026 Leonardo Cervantes (LeonardoCerv)
*/

// backup.go implements the "scratch backup" command group over the
// session manager's backup slots.

package cmd

import (
	"fmt"
	"time"

	"github.com/LeonardoCerv/scratch-space/internal/format"
	"github.com/LeonardoCerv/scratch-space/internal/log"
	"github.com/LeonardoCerv/scratch-space/internal/scratchpad"
	"github.com/spf13/cobra"
)

func newBackupCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "backup",
		Short: "Manage scratchpad backups",
		Long:  `Each scratchpad has one backup slot; a newer backup replaces the older one. Slots older than the retention window are pruned.`,
	}

	c.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List backups",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			backups := theApp.session.Backups()
			if JSON() {
				return PrintJSON(backups)
			}
			if len(backups) == 0 {
				fmt.Fprintln(Out(), "no backups")
				return nil
			}
			return format.Backups(Out(), backups, time.Now())
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "create <id>",
		Short: "Back up a scratchpad now",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := resolveID(args[0])
			if err != nil {
				return PrintJSONError(err)
			}

			b, err := theApp.session.CreateManualBackup(id)
			log.Event("session:backup", "create").ID(id).Write(err)
			if err != nil {
				return PrintJSONError(err)
			}

			if JSON() {
				return PrintJSON(b)
			}
			fmt.Fprintf(Out(), "backed up %s (%dB)\n", b.Name, len(b.Content))
			return nil
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "restore <id>",
		Short: "Restore a scratchpad from its backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := resolveID(args[0])
			if err != nil {
				return PrintJSONError(err)
			}

			b, err := theApp.session.BackupFor(id)
			if err != nil {
				return PrintJSONError(err)
			}
			doc, err := theApp.store.Update(id, scratchpad.Patch{Content: &b.Content})
			log.Event("session:restore", "update").ID(id).Write(err)
			if err != nil {
				return PrintJSONError(err)
			}
			if err := theApp.store.Flush(id); err != nil {
				return err
			}

			if JSON() {
				return PrintJSON(doc)
			}
			fmt.Fprintf(Out(), "restored %s from backup taken %s\n", doc.Name, b.Timestamp.Format("2006-01-02 15:04"))
			return nil
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a scratchpad's backup slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := resolveID(args[0])
			if err != nil {
				return PrintJSONError(err)
			}
			err = theApp.session.DeleteBackup(id)
			log.Event("session:backup", "delete").ID(id).Write(err)
			if err != nil {
				return PrintJSONError(err)
			}
			fmt.Fprintln(Out(), "backup deleted")
			return nil
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every backup slot",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if !Force() {
				return fmt.Errorf("refusing to clear backups without --force")
			}
			err := theApp.session.ClearBackups()
			log.Event("session:backup", "delete").Write(err)
			if err != nil {
				return PrintJSONError(err)
			}
			fmt.Fprintln(Out(), "backups cleared")
			return nil
		},
	})

	return c
}

func init() {
	rootCmd.AddCommand(newBackupCmd())
}
