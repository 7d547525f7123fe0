package cmd

import (
	"github.com/spf13/cobra"

	"github.com/TFMV/canopy/layout"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List the available layout modes",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range layout.ModeNames() {
			if name == layout.ModeConcentric {
				good.Printf("  %s", name)
				subtle.Println(" (default)")
				continue
			}
			cmd.Printf("  %s\n", name)
		}
	},
}

func init() {
	rootCmd.AddCommand(modesCmd)
}
