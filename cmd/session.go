/*
Copyright © 2026 Leonardo Cervantes (LeonardoCerv)
*/

// session.go implements the "scratch session" command group: open and
// close tracking, the foreground auto-backup loop, crash recovery, and
// clearing state.

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/LeonardoCerv/scratch-space/internal/format"
	"github.com/LeonardoCerv/scratch-space/internal/log"
	"github.com/LeonardoCerv/scratch-space/internal/session"
	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "session",
		Short: "Inspect and recover the recorded session",
	}

	c.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the recorded session state",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			st := theApp.session.State()
			if JSON() {
				return PrintJSON(st)
			}
			return format.Session(Out(), st, time.Now())
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "open <id>",
		Short: "Mark a scratchpad open and focused",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := resolveID(args[0])
			if err != nil {
				return PrintJSONError(err)
			}
			err = theApp.session.Open(id)
			log.Event("session:open", "write").ID(id).Write(err)
			if err != nil {
				return PrintJSONError(err)
			}
			if JSON() {
				return PrintJSON(theApp.session.State())
			}
			fmt.Fprintf(Out(), "opened %s\n", id)
			return nil
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "close <id>",
		Short: "Mark a scratchpad closed",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := resolveID(args[0])
			if err != nil {
				return PrintJSONError(err)
			}
			err = theApp.session.CloseDoc(id)
			log.Event("session:close", "write").ID(id).Write(err)
			if err != nil {
				return PrintJSONError(err)
			}
			if JSON() {
				return PrintJSON(theApp.session.State())
			}
			fmt.Fprintf(Out(), "closed %s\n", id)
			return nil
		},
	})

	var line, col, scroll int
	view := &cobra.Command{
		Use:   "view <id>",
		Short: "Record the editor position for a scratchpad",
		Long:  `Stores cursor and scroll position so an editing surface can restore it after recovery. Shown by "scratch session show".`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := resolveID(args[0])
			if err != nil {
				return PrintJSONError(err)
			}
			err = theApp.session.SetView(id, session.View{
				CursorLine:   line,
				CursorColumn: col,
				ScrollTop:    scroll,
			})
			log.Event("session:view", "write").ID(id).Write(err)
			if err != nil {
				return PrintJSONError(err)
			}
			if JSON() {
				return PrintJSON(theApp.session.State())
			}
			fmt.Fprintf(Out(), "view saved for %s\n", id)
			return nil
		},
	}
	view.Flags().IntVar(&line, "line", 0, "Cursor line")
	view.Flags().IntVar(&col, "col", 0, "Cursor column")
	view.Flags().IntVar(&scroll, "scroll", 0, "First visible line")
	c.AddCommand(view)

	var watchFor time.Duration
	watch := &cobra.Command{
		Use:   "watch",
		Short: "Run the auto-backup loop in the foreground",
		Long:  `Snapshots the focused scratchpad every backup interval. Runs until interrupted, or for the duration given with --for.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			theApp.session.Start()
			defer theApp.session.Close()
			log.Event("session:watch", "backup").Write(nil)

			fmt.Fprintf(Out(), "backing up every %s\n", theApp.cfg.BackupInterval())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if watchFor > 0 {
				select {
				case <-ctx.Done():
				case <-time.After(watchFor):
				}
				return nil
			}
			<-ctx.Done()
			return nil
		},
	}
	watch.Flags().DurationVar(&watchFor, "for", 0, "Stop after this duration instead of running until interrupted")
	c.AddCommand(watch)

	c.AddCommand(&cobra.Command{
		Use:   "recover",
		Short: "Check for an interrupted session and list what to restore",
		Long:  `A session counts as interrupted when scratchpads were left open and the last activity is more than five minutes old.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			rec, ok := theApp.session.CheckCrashRecovery()
			log.Event("session:recover", "read").Write(nil)
			if !ok {
				if JSON() {
					return PrintJSON(map[string]bool{"recoverable": false})
				}
				fmt.Fprintln(Out(), "no interrupted session found")
				return nil
			}

			if JSON() {
				return PrintJSON(rec)
			}
			fmt.Fprintf(Out(), "interrupted session from %s:\n", rec.LastActiveAt.Format("2006-01-02 15:04"))
			for _, id := range rec.OpenIDs {
				doc, err := theApp.store.Get(id)
				if err != nil {
					fmt.Fprintf(Out(), "  %s (missing)\n", id)
					continue
				}
				marker := " "
				if id == rec.FocusedID {
					marker = ">"
				}
				fmt.Fprintf(Out(), "  %s %s\n", marker, doc.Name)
			}
			return nil
		},
	})

	c.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget the recorded session state",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			err := theApp.session.ClearSession()
			log.Event("session:clear", "delete").Write(err)
			if err != nil {
				return PrintJSONError(err)
			}
			fmt.Fprintln(Out(), "session cleared")
			return nil
		},
	})

	return c
}

func init() {
	rootCmd.AddCommand(newSessionCmd())
}
