package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/deckhand/internal/cli"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <request>",
	Short: "Handle a single request and exit",
	Long: `Sends one request, shows the plan and, once approved, executes it.
Exits with status 1 when the provider fails or any action reports an error.`,
	Example: `  deckhand ask "find all markdown files under docs"
  deckhand ask --yes "copy report.pdf into archive"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := chatOptions(cmd)
		if err != nil {
			return err
		}
		opts.Yes, _ = cmd.Flags().GetBool("yes")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Stop()
		err = cli.Ask(ctx, strings.Join(args, " "), opts)
		if sig := ctx.Signal(); sig != nil && err == nil {
			return fmt.Errorf("interrupted by %v", sig)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().BoolP("yes", "y", false, "Approve the plan without asking")
	askCmd.Flags().Bool("json", false, "Emit JSON Lines events")
	askCmd.Flags().StringSlice("deny", nil, "Actions that are never approved (repeatable)")
}
