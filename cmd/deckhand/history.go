package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/deckhand/internal/cli"
	"github.com/aretw0/deckhand/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently executed actions from the journal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		journal, closeJournal, err := cli.OpenJournal(cfg)
		if err != nil {
			return err
		}
		defer closeJournal()
		if journal == nil {
			return errors.New("journal is disabled: set journal.driver to file or redis (DECKHAND_JOURNAL_DRIVER)")
		}

		entries, err := journal.List(cmd.Context(), limit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No actions recorded yet.")
			return nil
		}
		text, err := tui.ToYAML(entries)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, text)
		return err
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Number of most recent entries to show (0 for all)")
}
