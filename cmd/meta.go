/*
Copyright © 2026 Leonardo Cervantes (LeonardoCerv)
*/

// meta.go implements the scratchpad metadata commands: pin, tag,
// color, sort, and reorder.

package cmd

import (
	"fmt"

	"github.com/LeonardoCerv/scratch-space/internal/log"
	"github.com/spf13/cobra"
)

func newPinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pin <id>",
		Short: "Toggle a scratchpad's pin",
		Long:  `Toggle the pin on a scratchpad. Pinned scratchpads sort first in every listing.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := resolveID(args[0])
			if err != nil {
				return PrintJSONError(err)
			}

			err = theApp.store.TogglePin(id)
			log.Event("document:pin", "update").ID(id).Write(err)
			if err != nil {
				return PrintJSONError(err)
			}

			doc, err := theApp.store.Get(id)
			if err != nil {
				return err
			}
			if JSON() {
				return PrintJSON(map[string]any{"id": id, "pinned": doc.Pinned})
			}
			if doc.Pinned {
				fmt.Fprintf(Out(), "pinned %s\n", doc.Name)
			} else {
				fmt.Fprintf(Out(), "unpinned %s\n", doc.Name)
			}
			return nil
		},
	}
}

func newTagCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "tag",
		Short: "Manage scratchpad tags",
	}

	c.AddCommand(&cobra.Command{
		Use:   "add <id> <tag>",
		Short: "Add a tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := resolveID(args[0])
			if err != nil {
				return PrintJSONError(err)
			}
			err = theApp.store.AddTag(id, args[1])
			log.Event("document:tag", "update").ID(id).Write(err)
			if err != nil {
				return PrintJSONError(err)
			}
			if JSON() {
				return PrintJSON(map[string]string{"id": id, "added": args[1]})
			}
			fmt.Fprintf(Out(), "tagged %s\n", args[1])
			return nil
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "rm <id> <tag>",
		Short: "Remove a tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := resolveID(args[0])
			if err != nil {
				return PrintJSONError(err)
			}
			err = theApp.store.RemoveTag(id, args[1])
			log.Event("document:tag", "update").ID(id).Write(err)
			if err != nil {
				return PrintJSONError(err)
			}
			if JSON() {
				return PrintJSON(map[string]string{"id": id, "removed": args[1]})
			}
			fmt.Fprintf(Out(), "untagged %s\n", args[1])
			return nil
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List all tags in use",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			tags := theApp.store.AllTags()
			if JSON() {
				return PrintJSON(tags)
			}
			for _, t := range tags {
				fmt.Fprintln(Out(), t)
			}
			return nil
		},
	})

	return c
}

func newColorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "color <id> [hex]",
		Short: "Set or clear a scratchpad's color",
		Long:  `Set a scratchpad's display color to a hex value like "#FF6B6B". With no value the color is cleared.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := resolveID(args[0])
			if err != nil {
				return PrintJSONError(err)
			}
			color := ""
			if len(args) == 2 {
				color = args[1]
			}

			err = theApp.store.SetColor(id, color)
			log.Event("document:color", "update").ID(id).Write(err)
			if err != nil {
				return PrintJSONError(err)
			}

			if JSON() {
				return PrintJSON(map[string]string{"id": id, "color": color})
			}
			if color == "" {
				fmt.Fprintln(Out(), "color cleared")
			} else {
				fmt.Fprintf(Out(), "color set to %s\n", color)
			}
			return nil
		},
	}
}

func newSortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sort <id> <position>",
		Short: "Set a scratchpad's position in the custom order",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := resolveID(args[0])
			if err != nil {
				return PrintJSONError(err)
			}
			var pos int
			if _, err := fmt.Sscanf(args[1], "%d", &pos); err != nil || pos < 0 {
				return fmt.Errorf("invalid position %q", args[1])
			}

			err = theApp.store.SetSortOrder(id, pos)
			log.Event("document:sort", "update").ID(id).Write(err)
			if err != nil {
				return PrintJSONError(err)
			}
			return PrintJSON(map[string]any{"id": id, "position": pos})
		},
	}
}

func newReorderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <id>...",
		Short: "Set the custom order for several scratchpads",
		Long:  `Assign custom sort positions by argument order. If any id is unknown, nothing changes.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ids := make([]string, len(args))
			for i, arg := range args {
				id, err := resolveID(arg)
				if err != nil {
					return PrintJSONError(err)
				}
				ids[i] = id
			}

			err := theApp.store.Reorder(ids)
			log.Event("document:reorder", "update").Write(err)
			if err != nil {
				return PrintJSONError(err)
			}

			if JSON() {
				return PrintJSON(ids)
			}
			fmt.Fprintf(Out(), "reordered %d scratchpads\n", len(ids))
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newPinCmd())
	rootCmd.AddCommand(newTagCmd())
	rootCmd.AddCommand(newColorCmd())
	rootCmd.AddCommand(newSortCmd())
	rootCmd.AddCommand(newReorderCmd())
}
