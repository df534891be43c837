package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/myrjola/gumshoe/cmd/cli/casecheck"
	"github.com/spf13/cobra"
)

func init() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rootCmd.AddGroup(casecheck.Group)
	rootCmd.AddCommand(casecheck.Validate)
	rootCmd.AddCommand(casecheck.Lint)
}

var rootCmd = &cobra.Command{
	Use:  "gumshoe-cli",
	Long: `Command line utilities for Gumshoe https://github.com/myrjola/gumshoe`,
	Run: func(cmd *cobra.Command, args []string) {
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
