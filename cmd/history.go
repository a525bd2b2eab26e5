/*
Copyright © 2026 Leonardo Cervantes (LeonardoCerv)
*/

// history.go implements the "scratch history" command group: listing,
// diffing, searching, restoring, and clearing change history.

package cmd

import (
	"fmt"
	"os"

	"github.com/LeonardoCerv/scratch-space/internal/format"
	"github.com/LeonardoCerv/scratch-space/internal/log"
	"github.com/LeonardoCerv/scratch-space/internal/scratchpad"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newHistoryCmd() *cobra.Command {
	var (
		all      bool
		withDiff bool
		search   string
		clear    bool
	)
	c := &cobra.Command{
		Use:   "history [id]",
		Short: "Show a scratchpad's change history",
		Long: `Show the change history of a scratchpad, newest first. With --diff,
content differences between consecutive snapshots are shown. With
--search, entries are ranked by relevance to the query instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				resolved, err := resolveID(args[0])
				if err != nil {
					return PrintJSONError(err)
				}
				id = resolved
			}

			switch {
			case clear:
				return runHistoryClear(id)
			case search != "":
				return runHistorySearch(search, id)
			case all || id == "":
				entries := theApp.hist.All()
				if JSON() {
					return PrintJSON(entries)
				}
				return format.History(Out(), entries)
			default:
				entries := theApp.hist.Get(id)
				if JSON() {
					return PrintJSON(entries)
				}
				if withDiff {
					colour := term.IsTerminal(int(os.Stdout.Fd()))
					return format.HistoryDiff(Out(), entries, colour)
				}
				return format.History(Out(), entries)
			}
		},
	}
	c.Flags().BoolVar(&all, "all", false, "History across every scratchpad")
	c.Flags().BoolVarP(&withDiff, "diff", "d", false, "Show diffs between snapshots")
	c.Flags().StringVarP(&search, "search", "s", "", "Rank entries by relevance to a query")
	c.Flags().BoolVar(&clear, "clear", false, "Delete history (for one scratchpad, or everything with --force)")

	c.AddCommand(newHistoryRestoreCmd())
	return c
}

func runHistorySearch(query, id string) error {
	results, err := theApp.hist.Search(query, id)
	log.Event("history:search", "read").Write(err)
	if err != nil {
		return PrintJSONError(err)
	}
	if JSON() {
		return PrintJSON(results)
	}
	return format.SearchResults(Out(), results)
}

func runHistoryClear(id string) error {
	if id != "" {
		err := theApp.hist.Clear(id)
		log.Event("history:clear", "delete").ID(id).Write(err)
		if err != nil {
			return PrintJSONError(err)
		}
		fmt.Fprintln(Out(), "history cleared")
		return nil
	}
	if !Force() {
		return fmt.Errorf("refusing to clear all history without --force")
	}
	err := theApp.hist.ClearAll()
	log.Event("history:clear", "delete").Write(err)
	if err != nil {
		return PrintJSONError(err)
	}
	fmt.Fprintln(Out(), "all history cleared")
	return nil
}

// newHistoryRestoreCmd writes a history snapshot's content back into
// its scratchpad.
func newHistoryRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <entry-id>",
		Short: "Restore a scratchpad to a history snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			entry := theApp.hist.Find(args[0])
			if entry == nil {
				return PrintJSONError(fmt.Errorf("no history entry %q", args[0]))
			}

			doc, err := theApp.store.Update(entry.DocumentID, scratchpad.Patch{Content: &entry.Content})
			log.Event("history:restore", "update").ID(entry.DocumentID).Write(err)
			if err != nil {
				return PrintJSONError(err)
			}
			if err := theApp.store.Flush(doc.ID); err != nil {
				return err
			}

			if JSON() {
				return PrintJSON(doc)
			}
			fmt.Fprintf(Out(), "restored %s to snapshot %s\n", doc.Name, entry.ID)
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newHistoryCmd())
}
