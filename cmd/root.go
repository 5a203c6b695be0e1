package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stylo",
	Short: "Stylo - GitHub developer stylometry tool",
	Long: `Stylo builds stylometric profiles of GitHub developers.

It scrapes a user's public footprint (profile, repositories, commit
metadata), selects their most representative repositories, and runs
LLM-backed analyses of coding style, project preferences, and temporal
behavior. Profiles can be compared across accounts to surface likely
identity matches.`,
}

// Execute runs the root command
func Execute() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
