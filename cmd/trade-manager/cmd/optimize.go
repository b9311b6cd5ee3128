package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mprestonsparks/trade-manager/config"
	"github.com/mprestonsparks/trade-manager/journal"
	"github.com/mprestonsparks/trade-manager/optimizer"
	"github.com/mprestonsparks/trade-manager/state"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Run one optimization cycle from a scenario file",
	Long: `Run a full optimization cycle: update beliefs from the scenario's
snapshot and market signal, evolve the candidate population, and print the
winning parameters with the rebalance instructions they imply.

Example:
  trade-manager optimize --scenario examples/scenarios/basic.yaml --seed 42`,
	RunE: runOptimize,
}

var (
	optConfigPath   string
	optScenarioPath string
	optSeed         int64
	optVerbose      bool
)

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().StringVarP(&optConfigPath, "config", "f", "", "path to config file (YAML or JSON)")
	optimizeCmd.Flags().StringVarP(&optScenarioPath, "scenario", "s", "", "path to scenario file (required)")
	optimizeCmd.Flags().Int64Var(&optSeed, "seed", 0, "random seed (0 = time-based)")
	optimizeCmd.Flags().BoolVarP(&optVerbose, "verbose", "v", false, "per-generation debug logging")
	optimizeCmd.MarkFlagRequired("scenario")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if optConfigPath != "" {
		var err error
		cfg, err = config.LoadFromFile(optConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	sc, err := LoadScenario(optScenarioPath)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	snap := sc.Snapshot()
	sig := sc.MarketSignal()

	level := zerolog.InfoLevel
	if optVerbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	opts := []optimizer.Option{optimizer.WithLogger(log)}
	if optSeed != 0 {
		opts = append(opts, optimizer.WithSeed(optSeed))
	}
	eng, err := optimizer.NewEngine(cfg, opts...)
	if err != nil {
		return err
	}

	jrnl, err := journal.Open(cfg.Journal)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer jrnl.Close()

	fmt.Printf("Running optimization cycle\n")
	fmt.Printf("  Scenario: %s\n", optScenarioPath)
	fmt.Printf("  Portfolio: $%s total, $%s cash, %d positions\n",
		snap.TotalValue.StringFixed(2), snap.CashBalance.StringFixed(2), len(snap.Positions))
	fmt.Printf("  Signal: %s regime=%s confidence=%.2f\n\n", sig.Symbol, sig.Regime, sig.Confidence)

	rep := eng.UpdateBeliefs(snap, sig)
	fmt.Printf("Belief update:\n")
	fmt.Printf("  Confidence: %.4f\n", rep.Confidence)
	if len(rep.Degraded) > 0 {
		fmt.Printf("  Degraded keys: %v\n", rep.Degraded)
	}
	fmt.Println()

	res, err := eng.Optimize(snap, sig)
	if err != nil {
		return fmt.Errorf("optimize: %w", err)
	}

	printResult(res, snap)

	if err := jrnl.RecordCycle(cycleRecord(res, rep.Confidence, snap.Time)); err != nil {
		return fmt.Errorf("journal cycle: %w", err)
	}
	return nil
}

func printResult(res optimizer.Result, snap *state.Snapshot) {
	fmt.Printf("Optimization Results:\n")
	fmt.Printf("  Cycle: %s\n", res.CycleID)
	if res.Fallback {
		fmt.Printf("  FALLBACK: %s (identity parameters returned)\n", res.FallbackReason)
	}
	fmt.Printf("  Generations: %d  Evaluations: %d  Elapsed: %s\n",
		res.Generations, res.Evaluations, res.Elapsed.Round(time.Millisecond))
	fmt.Printf("  Best Fitness: %.4f\n", res.BestFitness)
	fmt.Printf("  Heat Capacity: %.2f\n\n", res.Best.HeatCapacity)

	fmt.Printf("Target Parameters:\n")
	for _, sym := range res.Best.Symbols() {
		fmt.Printf("  %-8s size=%s alloc=%.2f%% stop=%s take=%s var=%.4f style=%s\n",
			sym,
			res.Best.PositionSizes[sym].StringFixed(2),
			res.Best.TargetAllocations[sym]*100,
			decStr(res.Best.StopLoss[sym]),
			decStr(res.Best.TakeProfit[sym]),
			res.Best.VaRLimits[sym],
			res.Best.ExecutionStyles[sym])
	}

	instructions := optimizer.Rebalance(res.Best, snap)
	if len(instructions) == 0 {
		fmt.Printf("\nNo rebalance instructions (all moves below threshold).\n")
		return
	}
	fmt.Printf("\nRebalance Instructions:\n")
	for _, in := range instructions {
		fmt.Printf("  %-4s %-8s %s shares (%s)\n",
			in.Side, in.Symbol, in.Quantity.StringFixed(2), in.Style)
	}
}

func decStr(d decimal.Decimal) string {
	if d.IsZero() {
		return "-"
	}
	return d.StringFixed(2)
}

func cycleRecord(res optimizer.Result, confidence float64, at time.Time) journal.CycleRecord {
	rec := journal.CycleRecord{
		CycleID:        res.CycleID,
		Time:           at,
		BestFitness:    res.BestFitness,
		Generations:    res.Generations,
		Evaluations:    res.Evaluations,
		Confidence:     confidence,
		HeatCapacity:   res.Best.HeatCapacity,
		Fallback:       res.Fallback,
		FallbackReason: res.FallbackReason,
		Elapsed:        res.Elapsed,
	}
	for _, sym := range res.Best.Symbols() {
		rec.Params = append(rec.Params, journal.ParameterRecord{
			Symbol:           sym,
			TargetSize:       res.Best.PositionSizes[sym].InexactFloat64(),
			TargetAllocation: res.Best.TargetAllocations[sym],
			StopLoss:         res.Best.StopLoss[sym].InexactFloat64(),
			TakeProfit:       res.Best.TakeProfit[sym].InexactFloat64(),
			VaRLimit:         res.Best.VaRLimits[sym],
			Style:            string(res.Best.ExecutionStyles[sym]),
		})
	}
	return rec
}
