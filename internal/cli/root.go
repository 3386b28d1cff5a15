package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const banner = `seedshift - schema evolution for seed and migration scripts`

var rootCmd = &cobra.Command{
	Use:   "seedshift",
	Short: "Rewrite SQL seed and migration scripts as the schema evolves",
	Long: banner + `

seedshift applies declared schema changes to a tree of SQL scripts: it renames
tables and columns, inserts or removes columns in every value row, drops the
statements of retired tables and replaces placeholder ids with fresh UUIDs.
Rules live in seedshift.yaml; nothing is inferred.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or rule set
  12 - User declined to write the rewritten files
  14 - Source path not found
  15 - check found files that would be rewritten
  16 - One or more files were left untouched because of an error`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
