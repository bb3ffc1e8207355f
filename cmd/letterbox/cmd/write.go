package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"letterbox/internal/mailbox"
)

func newWriteCmd(opts *options) *cobra.Command {
	var mood string

	cmd := &cobra.Command{
		Use:   "write --mood MOOD <text>",
		Short: "Send an anonymous letter",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := strings.Join(args, " ")
			if err := mailbox.ValidateDraft(content, mood); err != nil {
				return err
			}
			if err := opts.client().SendLetter(cmd.Context(), content, mood); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Your letter is on its way.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&mood, "mood", "m", "", "mood of the letter, one of the names printed by the moods command")
	_ = cmd.MarkFlagRequired("mood")
	return cmd
}

func newMoodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "moods",
		Short: "List the moods a letter can carry",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, m := range mailbox.Moods {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
		},
	}
}
