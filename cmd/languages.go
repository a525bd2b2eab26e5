/*
Copyright © 2026 Leonardo Cervantes (LeonardoCerv)
*/

package cmd

import (
	"fmt"

	"github.com/LeonardoCerv/scratch-space/internal/language"
	"github.com/spf13/cobra"
)

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if JSON() {
				return PrintJSON(language.Supported)
			}
			for _, l := range language.Supported {
				fmt.Fprintf(Out(), "%-14s .%s\n", l, language.Ext(l))
			}
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newLanguagesCmd())
}
