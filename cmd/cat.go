/*
Copyright © 2026 Leonardo Cervantes (LeonardoCerv)
*/

// cat.go implements the "scratch cat" command.
//
// Terminal output of markdown scratchpads gets glamour rendering;
// pipe/redirect or --raw gets the raw content.

package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/LeonardoCerv/scratch-space/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newCatCmd() *cobra.Command {
	var raw bool
	c := &cobra.Command{
		Use:   "cat <id>",
		Short: "Print a scratchpad's content",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := resolveID(args[0])
			if err != nil {
				return PrintJSONError(err)
			}

			doc, err := theApp.store.Get(id)
			log.Event("document:cat", "read").ID(id).Write(err)
			if err != nil {
				return PrintJSONError(err)
			}
			if err := theApp.session.Open(id); err != nil {
				log.Event("session:open", "write").ID(id).Write(err)
			}

			if JSON() {
				return PrintJSON(doc)
			}

			if !raw && doc.Language == "markdown" && term.IsTerminal(int(os.Stdout.Fd())) {
				rendered, renderErr := glamour.Render(doc.Content, "dark")
				if renderErr == nil {
					fmt.Fprint(Out(), rendered)
					return nil
				}
			}
			fmt.Fprint(Out(), doc.Content)
			return nil
		},
	}
	c.Flags().BoolVar(&raw, "raw", false, "Output raw content without rendering")
	return c
}

func init() {
	rootCmd.AddCommand(newCatCmd())
}
