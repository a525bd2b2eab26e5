/*
Copyright © 2026 Leonardo Cervantes (LeonardoCerv)
*/

// config.go implements the "scratch config" command.
//
// With no arguments it lists every setting. With a key it prints that
// value; with a key and a value it writes the setting. --global
// targets ~/.scratch-space/config.yaml instead of the local file.

package cmd

import (
	"fmt"
	"sort"

	"github.com/LeonardoCerv/scratch-space/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	var global bool
	c := &cobra.Command{
		Use:   "config [key] [value]",
		Short: "Get and set configuration",
		Long: `Get and set configuration values. Valid keys:

  ` + joinKeys(),
		Args: cobra.MaximumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			scope := config.ScopeLocal
			if global {
				scope = config.ScopeGlobal
			}
			cfg, err := config.LoadScope(scope)
			if err != nil {
				return PrintJSONError(err)
			}

			switch len(args) {
			case 0:
				all := cfg.All()
				if JSON() {
					return PrintJSON(all)
				}
				keys := make([]string, 0, len(all))
				for k := range all {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(Out(), "%s = %s\n", k, all[k])
				}
				return nil

			case 1:
				v, err := cfg.Get(args[0])
				if err != nil {
					return PrintJSONError(err)
				}
				if JSON() {
					return PrintJSON(map[string]string{args[0]: v})
				}
				fmt.Fprintln(Out(), v)
				return nil

			default:
				if err := cfg.Set(args[0], args[1]); err != nil {
					return PrintJSONError(err)
				}
				if err := cfg.SaveScope(scope); err != nil {
					return PrintJSONError(err)
				}
				if JSON() {
					return PrintJSON(map[string]string{args[0]: args[1]})
				}
				fmt.Fprintf(Out(), "%s = %s\n", args[0], args[1])
				return nil
			}
		},
	}
	c.Flags().BoolVarP(&global, "global", "g", false, "Use the global config (~/.scratch-space/config.yaml)")
	return c
}

func joinKeys() string {
	s := ""
	for i, k := range config.ValidKeys() {
		if i > 0 {
			s += "\n  "
		}
		s += k
	}
	return s
}

func init() {
	rootCmd.AddCommand(newConfigCmd())
}
