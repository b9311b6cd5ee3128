package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("trade-manager version %s\n", version)
		fmt.Println("Belief-driven trade parameter optimization")
		fmt.Println("https://github.com/mprestonsparks/trade-manager")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
