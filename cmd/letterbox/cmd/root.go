package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"letterbox/internal/letterclient"
	"letterbox/internal/mailbox"
)

const defaultServer = "http://localhost:3333"

type options struct {
	server    string
	statePath string
}

func (o *options) client() *letterclient.Client {
	return letterclient.New(o.server, nil)
}

func (o *options) state() (*mailbox.State, error) {
	return mailbox.LoadState(o.statePath)
}

// NewRootCmd builds the letterbox command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "letterbox",
		Short: "Write and read anonymous letters",
		Long: `letterbox sends anonymous letters to strangers and reads the ones
that have arrived for you.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().StringVar(&opts.server, "server", envOr("LETTERBOX_SERVER", defaultServer), "letters API base URL")
	root.PersistentFlags().StringVar(&opts.statePath, "state", defaultStatePath(), "path of the local reading state file")

	root.AddCommand(
		newWriteCmd(opts),
		newInboxCmd(opts),
		newReadCmd(opts),
		newReactCmd(opts),
		newMoodsCmd(),
	)
	return root
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".letterbox-state.json"
	}
	return filepath.Join(dir, "letterbox", "state.json")
}
