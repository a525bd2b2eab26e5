/*
Copyright © 2026 Leonardo Cervantes (LeonardoCerv)
*/

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/LeonardoCerv/scratch-space/internal/log"
	"github.com/LeonardoCerv/scratch-space/internal/scratchpad"
	"github.com/spf13/cobra"
)

// stdin is the input reader for write. Tests can replace it.
var stdin io.Reader = os.Stdin

func newWriteCmd() *cobra.Command {
	var appendFlag bool
	c := &cobra.Command{
		Use:   "write <id>",
		Short: "Replace a scratchpad's content from stdin",
		Long:  `Read stdin and store it as the scratchpad's content. With --append the input is added to the existing content instead.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := resolveID(args[0])
			if err != nil {
				return PrintJSONError(err)
			}

			data, err := io.ReadAll(stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			content := string(data)
			if appendFlag {
				doc, err := theApp.store.Get(id)
				if err != nil {
					return PrintJSONError(err)
				}
				content = doc.Content + content
			}

			doc, err := theApp.store.Update(id, scratchpad.Patch{Content: &content})
			log.Event("document:write", "update").ID(id).Write(err)
			if err != nil {
				return PrintJSONError(err)
			}
			if err := theApp.store.Flush(id); err != nil {
				return err
			}
			if err := theApp.session.Open(id); err != nil {
				log.Event("session:open", "write").ID(id).Write(err)
			}

			if JSON() {
				return PrintJSON(doc)
			}
			fmt.Fprintf(Out(), "wrote %dB to %s\n", len(content), doc.Name)
			return nil
		},
	}
	c.Flags().BoolVarP(&appendFlag, "append", "a", false, "Append to the existing content")
	return c
}

func init() {
	rootCmd.AddCommand(newWriteCmd())
}
