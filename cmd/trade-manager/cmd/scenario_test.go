package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mprestonsparks/trade-manager/market"
)

const basicScenario = `
time: 2026-08-01T09:30:00Z
cash: 85000
total_value: 100000
positions:
  - symbol: AAPL
    size: 100
    entry_price: 140
    current_price: 150
    stop_loss: 147
risk:
  portfolio_var: 0.01
  portfolio_volatility: 0.02
  current_heat: 0.4
  position_volatility:
    AAPL: 0.02
execution:
  latency_ms: 120
performance:
  total_return: 0.08
  sharpe_ratio: 1.5
  recovery_factor: 2.0
signal:
  symbol: AAPL
  trend: 0.3
  volatility: 0.9
  momentum: 0.2
  confidence: 0.6
`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario(t *testing.T) {
	t.Parallel()

	sc, err := LoadScenario(writeScenario(t, basicScenario))
	require.NoError(t, err)

	snap := sc.Snapshot()
	require.Contains(t, snap.Positions, "AAPL")
	assert.Equal(t, "100", snap.Positions["AAPL"].Size.String())
	require.NotNil(t, snap.Positions["AAPL"].StopLoss)
	assert.Equal(t, "147", snap.Positions["AAPL"].StopLoss.String())
	assert.Equal(t, 0.02, snap.Risk.PortfolioVolatility)
	assert.Equal(t, int64(120), snap.Execution.Latency.Milliseconds())

	sig := sc.MarketSignal()
	assert.Equal(t, "AAPL", sig.Symbol)
	assert.Equal(t, market.RegimeHighVolatility, sig.Regime)
}

func TestLoadScenarioInconsistent(t *testing.T) {
	t.Parallel()

	// 100*150 + 85000 != 90000.
	bad := `
cash: 85000
total_value: 90000
positions:
  - symbol: AAPL
    size: 100
    current_price: 150
`
	_, err := LoadScenario(writeScenario(t, bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inconsistent")
}

func TestLoadScenarioMissingTotal(t *testing.T) {
	t.Parallel()

	_, err := LoadScenario(writeScenario(t, "cash: 1000\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "total_value")
}

func TestLoadScenarioMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
}
