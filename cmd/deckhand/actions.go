package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/deckhand/internal/presentation/tui"
	"github.com/aretw0/deckhand/pkg/registry"
	"github.com/spf13/cobra"
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the actions the assistant may propose",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		defs := registry.ToolDefinitions(registry.Builtins())
		out := cmd.OutOrStdout()

		switch format {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(defs)
		case "yaml":
			text, err := tui.ToYAML(defs)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, text)
			return err
		case "text":
			for _, spec := range registry.Builtins() {
				fmt.Fprintf(out, "%-22s %s\n", spec.Name, spec.Description)
			}
			return nil
		default:
			return fmt.Errorf("unknown format %q (supported: text, json, yaml)", format)
		}
	},
}

func init() {
	rootCmd.AddCommand(actionsCmd)
	actionsCmd.Flags().StringP("format", "f", "text", "Output format: text, json or yaml")
}
