package main

import (
	"fmt"

	"github.com/aretw0/deckhand/internal/cli"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models [filter]",
	Short: "List the models offered by the provider",
	Long:  `Lists model identifiers from the provider. An optional filter keeps ids containing it (case-insensitive).`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.RequireCredential(); err != nil {
			return err
		}
		filter := ""
		if len(args) > 0 {
			filter = args[0]
		}

		debug, _ := cmd.Flags().GetBool("debug")
		assistant := cli.NewAssistant(cfg, cli.CreateLogger(debug, cfg.Log.Level), nil)
		models, err := assistant.Client().ListModels(cmd.Context(), filter)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Available models:")
		for _, m := range models {
			fmt.Fprintf(out, "- %s\n", m.ID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
