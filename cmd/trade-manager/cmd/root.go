package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trade-manager",
	Short: "Belief-driven trade parameter optimization",
	Long: `Trade-manager runs a unified optimization cycle over trading parameters.

Each cycle updates a persistent belief store from the current portfolio
snapshot and market signal, then evolves a population of candidate parameter
bundles (position sizes, protective levels, risk limits, execution styles)
with a genetic search scored by simulating each candidate onto the snapshot.

Complete documentation is available at https://github.com/mprestonsparks/trade-manager`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
