/*
Copyright © 2026 Leonardo Cervantes (LeonardoCerv)
*/

package cmd

import (
	"fmt"

	"github.com/LeonardoCerv/scratch-space/internal/log"
	"github.com/spf13/cobra"
)

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a scratchpad",
		Long:  `Delete a scratchpad. Its change history keeps the final content, so "scratch history" can still recover it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := resolveID(args[0])
			if err != nil {
				return PrintJSONError(err)
			}

			err = theApp.store.Delete(id)
			log.Event("document:rm", "delete").ID(id).Write(err)
			if err != nil {
				return PrintJSONError(err)
			}
			if err := theApp.session.CloseDoc(id); err != nil {
				log.Event("session:close", "write").ID(id).Write(err)
			}

			if JSON() {
				return PrintJSON(map[string]string{"deleted": id})
			}
			fmt.Fprintf(Out(), "deleted %s\n", id)
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every scratchpad",
		Long:  `Delete all scratchpads. Requires --force.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if !Force() {
				return fmt.Errorf("refusing to delete %d scratchpads without --force", theApp.store.Count())
			}

			n := theApp.store.Count()
			err := theApp.store.ClearAll()
			log.Event("document:clear", "delete").Write(err)
			if err != nil {
				return PrintJSONError(err)
			}
			if err := theApp.session.ClearSession(); err != nil {
				log.Event("session:clear", "write").Write(err)
			}

			if JSON() {
				return PrintJSON(map[string]int{"deleted": n})
			}
			fmt.Fprintf(Out(), "deleted %d scratchpads\n", n)
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newRmCmd())
	rootCmd.AddCommand(newClearCmd())
}
