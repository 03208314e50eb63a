// Package cli holds the pointdeck commands.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pointdeck",
	Short: "Planning session backend",
	Long:  "pointdeck runs the planning session API and its maintenance jobs.",
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sweepCmd)
}
