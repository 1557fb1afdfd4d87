package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/patchtools/patchlint/internal/output"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the patchlint version",
	RunE: func(cmd *cobra.Command, args []string) error {
		if output.IsJSON() {
			return output.OutputJSON(map[string]string{"version": Version})
		}
		fmt.Printf("patchlint %s\n", Version)
		return nil
	},
}
