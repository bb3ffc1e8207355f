package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"letterbox/internal/mailbox"
)

func newInboxCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inbox",
		Short: "List letters that have arrived",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := opts.state()
			if err != nil {
				return err
			}
			letters, err := opts.client().ArrivedLetters(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(letters) == 0 {
				fmt.Fprintln(out, "No letters yet. Check back later.")
				return nil
			}

			now := time.Now()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tMOOD\tSTATUS\tARRIVED\tFIRE\tPREVIEW")
			for _, l := range letters {
				e := mailbox.NewEntry(l, state, now)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", shortID(e.ID), e.Mood, e.Status, e.ArrivalTime, e.FireCount, e.Preview)
			}
			return w.Flush()
		},
	}
}

func newReadCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "read <id>",
		Short: "Open a letter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := opts.state()
			if err != nil {
				return err
			}
			letters, err := opts.client().ArrivedLetters(cmd.Context())
			if err != nil {
				return err
			}
			l, err := mailbox.Find(letters, args[0])
			if err != nil {
				return err
			}

			e := mailbox.NewEntry(l, state, time.Now())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s · %s\n\n%s\n\n🔥 %d\n", e.Mood, e.ArrivalTime, e.Content, e.FireCount)

			state.MarkOpened(l.ID)
			return state.Save()
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
