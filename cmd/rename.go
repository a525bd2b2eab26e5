/*
Copyright © 2026 Leonardo Cervantes (LeonardoCerv)
*/

package cmd

import (
	"fmt"

	"github.com/LeonardoCerv/scratch-space/internal/log"
	"github.com/spf13/cobra"
)

func newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a scratchpad",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := resolveID(args[0])
			if err != nil {
				return PrintJSONError(err)
			}

			err = theApp.store.Rename(id, args[1])
			log.Event("document:rename", "update").ID(id).Write(err)
			if err != nil {
				return PrintJSONError(err)
			}

			if JSON() {
				return PrintJSON(map[string]string{"id": id, "name": args[1]})
			}
			fmt.Fprintf(Out(), "renamed to %s\n", args[1])
			return nil
		},
	}
}

func newLangCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lang <id> <language>",
		Short: "Change a scratchpad's language",
		Long:  `Change the language used for syntax handling and the virtual file extension. Run "scratch languages" for the supported list.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := resolveID(args[0])
			if err != nil {
				return PrintJSONError(err)
			}

			err = theApp.store.ChangeLanguage(id, args[1])
			log.Event("document:lang", "update").ID(id).Write(err)
			if err != nil {
				return PrintJSONError(err)
			}

			if JSON() {
				return PrintJSON(map[string]string{"id": id, "language": args[1]})
			}
			fmt.Fprintf(Out(), "language set to %s\n", args[1])
			return nil
		},
	}
}

func newDupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dup <id>",
		Short: "Duplicate a scratchpad",
		Long:  `Create an independent copy named "<name> (Copy)" with the same content, language, tags, and color.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := resolveID(args[0])
			if err != nil {
				return PrintJSONError(err)
			}

			dup, err := theApp.store.Duplicate(id)
			b := log.Event("document:dup", "create").ID(id)
			b.Write(err)
			if err != nil {
				return PrintJSONError(err)
			}

			if JSON() {
				return PrintJSON(dup)
			}
			fmt.Fprintf(Out(), "%s  %s\n", dup.ID, dup.Name)
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newRenameCmd())
	rootCmd.AddCommand(newLangCmd())
	rootCmd.AddCommand(newDupCmd())
}
