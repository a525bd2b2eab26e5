/*
Copyright © 2026 Leonardo Cervantes (LeonardoCerv)
*/

package cmd

import (
	"fmt"

	"github.com/LeonardoCerv/scratch-space/internal/log"
	"github.com/spf13/cobra"
)

func newNewCmd() *cobra.Command {
	var lang string
	c := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a scratchpad",
		Long:  `Create a new scratchpad. With no name, one is generated ("Scratch 1", "Scratch 2", ...).`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}

			doc, err := theApp.store.Create(name, lang)
			b := log.Event("document:new", "create")
			if doc != nil {
				b = b.ID(doc.ID)
			}
			b.Write(err)
			if err != nil {
				return PrintJSONError(err)
			}

			if JSON() {
				return PrintJSON(doc)
			}
			fmt.Fprintf(Out(), "%s  %s (%s)\n", doc.ID, doc.Name, doc.Language)
			return nil
		},
	}
	c.Flags().StringVarP(&lang, "lang", "l", "", "Language for the new scratchpad")
	return c
}

func init() {
	rootCmd.AddCommand(newNewCmd())
}
