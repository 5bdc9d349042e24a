package main

import (
	"github.com/aretw0/deckhand/internal/cli"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive session",
	Long: `Starts the read-plan-confirm-execute loop. Every plan proposed by the model
is shown and must be approved with 'y' before anything runs.
Type 'exit' or 'quit' (or press Ctrl-D) to stop.

Nothing is recorded by default. Set journal.driver to "file" or "redis" to keep
an audit trail of executed actions (arguments included, after redaction) for
'deckhand history'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := chatOptions(cmd)
		if err != nil {
			return err
		}
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Stop()
		return cli.Chat(ctx, opts)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().Bool("json", false, "Run in JSON mode (JSON Lines input/output)")
	chatCmd.Flags().StringSlice("deny", nil, "Actions that are never approved (repeatable)")

	// chat is the default when no command is provided.
	rootCmd.Flags().AddFlagSet(chatCmd.Flags())
	rootCmd.Args = cobra.NoArgs
	rootCmd.RunE = chatCmd.RunE
}
