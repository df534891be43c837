// Package casecheck hosts the case authoring commands. Validation failures
// are fatal at load time; lint findings are advisory.
package casecheck

import (
	"fmt"
	"os"

	"github.com/myrjola/gumshoe/internal/cases"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "casecheck",
	Title: "Case authoring",
}

var Validate = &cobra.Command{
	Use:     "validate [case file]...",
	GroupID: "casecheck",
	Short:   "Validate case files",
	Long:    `Checks that the case files parse and satisfy the structural rules the engine relies on`,
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		failed := false
		for _, path := range args {
			if _, err := cases.Load(path); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
				failed = true
				continue
			}
			fmt.Printf("%s: ok\n", path)
		}
		if failed {
			os.Exit(1)
		}
	},
}

var Lint = &cobra.Command{
	Use:     "lint [case file]...",
	GroupID: "casecheck",
	Short:   "Lint case files",
	Long:    `Reports advisory issues in case files, like witnesses without wants and fears`,
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, path := range args {
			def, err := cases.Load(path)
			if err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
				os.Exit(1)
			}
			warnings := cases.Lint(def)
			if len(warnings) == 0 {
				fmt.Printf("%s: clean\n", path)
				continue
			}
			for _, warning := range warnings {
				fmt.Printf("%s: %s\n", path, warning)
			}
		}
	},
}
