package main

import (
	"fmt"
	"os"

	"github.com/aretw0/deckhand/internal/cli"
	"github.com/aretw0/deckhand/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "deckhand",
	Short: "Deckhand is a natural-language file system assistant",
	Long: `Deckhand turns plain-language requests into file system actions
(find, move, copy, write, run a command) proposed by a language model,
and runs them only after you approve the plan.

Running deckhand without a subcommand starts the interactive chat.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a deckhand.yaml configuration file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
}

// loadConfig resolves the configuration for the running command.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func chatOptions(cmd *cobra.Command) (cli.ChatOptions, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cli.ChatOptions{}, err
	}
	debug, _ := cmd.Flags().GetBool("debug")
	jsonMode, _ := cmd.Flags().GetBool("json")
	deny, _ := cmd.Flags().GetStringSlice("deny")
	return cli.ChatOptions{
		Config: cfg,
		Debug:  debug,
		JSON:   jsonMode,
		Deny:   deny,
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
	}, nil
}
