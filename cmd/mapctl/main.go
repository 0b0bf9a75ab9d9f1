package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag        string
	passphraseFlag string
	rootCmd        = &cobra.Command{
		Use:   "mapctl",
		Short: "CLI client for the map service REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Map service base URL")
	rootCmd.PersistentFlags().StringVarP(&passphraseFlag, "passphrase", "p", "", "Admin passphrase (required for export commands)")

	// progress subcommand
	progressCmd := &cobra.Command{
		Use:   "progress",
		Short: "Show per-category completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgress(apiFlag, os.Stdout)
		},
	}
	rootCmd.AddCommand(progressCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
