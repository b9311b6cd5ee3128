package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mprestonsparks/trade-manager/config"
)

func TestRebalanceEmitsSell(t *testing.T) {
	t.Parallel()

	snap := testSnapshot()
	p := Identity(snap, config.Default())
	p.PositionSizes["AAPL"] = dec(60)
	p.ExecutionStyles["AAPL"] = StyleTWAP

	got := Rebalance(p, snap)
	require.Len(t, got, 1)
	assert.Equal(t, "AAPL", got[0].Symbol)
	assert.Equal(t, SideSell, got[0].Side)
	assert.True(t, got[0].Quantity.Equal(dec(40)))
	assert.Equal(t, StyleTWAP, got[0].Style)
}

func TestRebalanceEmitsBuy(t *testing.T) {
	t.Parallel()

	snap := testSnapshot()
	p := Identity(snap, config.Default())
	p.PositionSizes["AAPL"] = dec(150)

	got := Rebalance(p, snap)
	require.Len(t, got, 1)
	assert.Equal(t, SideBuy, got[0].Side)
	assert.True(t, got[0].Quantity.Equal(dec(50)))
}

func TestRebalanceSkipsBelowThreshold(t *testing.T) {
	t.Parallel()

	snap := testSnapshot()
	p := Identity(snap, config.Default())
	// A 2-share move is $300 = 0.3% of the portfolio, under the 5% threshold.
	p.PositionSizes["AAPL"] = dec(98)

	assert.Empty(t, Rebalance(p, snap))
}

func TestRebalanceIdentityIsEmpty(t *testing.T) {
	t.Parallel()

	snap := testSnapshot()
	assert.Empty(t, Rebalance(Identity(snap, config.Default()), snap))
}

func TestRebalanceNilSnapshot(t *testing.T) {
	t.Parallel()

	p := Identity(testSnapshot(), config.Default())
	assert.Empty(t, Rebalance(p, nil))
}
