/*
Copyright © 2026 Leonardo Cervantes (LeonardoCerv)
*/

// fs.go implements the "scratch fs" command group: the scratchpad:///
// virtual file view over the store.

package cmd

import (
	"fmt"
	"io"

	"github.com/LeonardoCerv/scratch-space/internal/log"
	"github.com/LeonardoCerv/scratch-space/internal/vfs"
	"github.com/spf13/cobra"
)

func newFsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "fs",
		Short: "Work with scratchpads as virtual files",
		Long:  `Every scratchpad is exposed as a file under scratchpad:///<id>/<name>.<ext>, named after its title with a language-derived extension.`,
	}

	c.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List virtual files",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			infos, err := theApp.bridge.ReadDir("scratchpad:///")
			if err != nil {
				return PrintJSONError(err)
			}
			if JSON() {
				return PrintJSON(infos)
			}
			for _, info := range infos {
				fmt.Fprintf(Out(), "%6dB  %s\n", info.Size, info.Name)
			}
			return nil
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "uri <id>",
		Short: "Print a scratchpad's virtual file URI",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := resolveID(args[0])
			if err != nil {
				return PrintJSONError(err)
			}
			doc, err := theApp.store.Get(id)
			if err != nil {
				return PrintJSONError(err)
			}
			uri := vfs.URIFor(doc)
			if JSON() {
				return PrintJSON(map[string]string{"uri": uri})
			}
			fmt.Fprintln(Out(), uri)
			return nil
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "stat <uri>",
		Short: "Show virtual file metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			info, err := theApp.bridge.Stat(args[0])
			if err != nil {
				return PrintJSONError(err)
			}
			if JSON() {
				return PrintJSON(info)
			}
			fmt.Fprintf(Out(), "%s\n  size: %dB\n  created: %s\n  modified: %s\n",
				info.Name, info.Size,
				info.CreatedAt.Format("2006-01-02 15:04"),
				info.ModifiedAt.Format("2006-01-02 15:04"))
			return nil
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "cat <uri>",
		Short: "Print a virtual file's content",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := theApp.bridge.Read(args[0])
			log.Event("vfs:cat", "read").Write(err)
			if err != nil {
				return PrintJSONError(err)
			}
			_, err = Out().Write(data)
			return err
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "write <uri>",
		Short: "Replace a virtual file's content from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := vfs.DocumentID(args[0])
			if err != nil {
				return PrintJSONError(err)
			}
			data, err := io.ReadAll(stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			err = theApp.bridge.Write(args[0], data)
			log.Event("vfs:write", "update").ID(id).Write(err)
			if err != nil {
				return PrintJSONError(err)
			}
			// The bridge routes through the debounced update path; the
			// process exits before the timer fires, so force the write.
			if err := theApp.store.Flush(id); err != nil {
				return err
			}
			fmt.Fprintf(Out(), "wrote %dB\n", len(data))
			return nil
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "rm <uri>",
		Short: "Delete the scratchpad behind a virtual file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			err := theApp.bridge.Delete(args[0])
			log.Event("vfs:rm", "delete").Write(err)
			if err != nil {
				return PrintJSONError(err)
			}
			fmt.Fprintln(Out(), "deleted")
			return nil
		},
	})

	return c
}

func init() {
	rootCmd.AddCommand(newFsCmd())
}
