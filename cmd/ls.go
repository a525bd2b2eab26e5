/*
Copyright © 2026 Leonardo Cervantes (LeonardoCerv)
*/

package cmd

import (
	"time"

	"github.com/LeonardoCerv/scratch-space/internal/format"
	"github.com/LeonardoCerv/scratch-space/internal/scratchpad"
	"github.com/spf13/cobra"
)

func newLsCmd() *cobra.Command {
	var (
		long     bool
		tags     []string
		lang     string
		pinned   bool
		unpinned bool
		sortBy   string
		desc     bool
	)
	c := &cobra.Command{
		Use:   "ls",
		Short: "List scratchpads",
		Long:  `List scratchpads. Pinned scratchpads always sort first.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			f := scratchpad.Filter{Tags: tags, Language: lang, Desc: desc}
			if pinned {
				v := true
				f.Pinned = &v
			} else if unpinned {
				v := false
				f.Pinned = &v
			}
			if sortBy != "" {
				mode, err := scratchpad.ParseSortMode(sortBy)
				if err != nil {
					return PrintJSONError(err)
				}
				f.SortBy = mode
			}

			docs := theApp.store.List(f)
			if JSON() {
				return PrintJSON(docs)
			}
			if long {
				return format.Long(Out(), docs, time.Now())
			}
			return format.List(Out(), docs)
		},
	}
	c.Flags().BoolVarP(&long, "long", "l", false, "Long listing with language, size, and tags")
	c.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Only scratchpads carrying any of these tags")
	c.Flags().StringVar(&lang, "lang", "", "Only scratchpads in this language")
	c.Flags().BoolVar(&pinned, "pinned", false, "Only pinned scratchpads")
	c.Flags().BoolVar(&unpinned, "unpinned", false, "Only unpinned scratchpads")
	c.Flags().StringVarP(&sortBy, "sort", "s", "", "Sort mode: name, created, updated, custom")
	c.Flags().BoolVar(&desc, "desc", false, "Reverse the sort order")
	return c
}

func init() {
	rootCmd.AddCommand(newLsCmd())
}
