package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"letterbox/internal/mailbox"
)

func newReactCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "react <id>",
		Short: "Send a fire reaction to a letter, once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := opts.state()
			if err != nil {
				return err
			}
			client := opts.client()

			id := args[0]
			if !state.HasReacted(id) {
				letters, err := client.ArrivedLetters(cmd.Context())
				if err != nil {
					return err
				}
				l, err := mailbox.Find(letters, id)
				if err != nil {
					return err
				}
				id = l.ID
			}

			count, err := state.React(id, func() (int, error) {
				return client.React(cmd.Context(), id)
			})
			if err != nil {
				return err
			}
			if err := state.Save(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "🔥 %d\n", count)
			return nil
		},
	}
}
