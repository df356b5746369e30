package application

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpreadMath_NoFees(t *testing.T) {
	t.Parallel()
	// Quotes {A: 100, B: 102} with notional 50 and zero fees.
	qty := Quantity(50, 100)
	require.InDelta(t, 0.5, qty, 1e-12)
	require.InDelta(t, 2.0, PercentSpread(100, 102), 1e-12)
	require.InDelta(t, 1.0, NetProfit(qty, 100, 102, 0, 0), 1e-12)
}

func TestNetProfit_ZeroFeeIdentity(t *testing.T) {
	t.Parallel()
	cases := []struct{ qty, buy, sell float64 }{
		{0.5, 100, 102},
		{2, 10, 11.5},
		{0.001, 64000, 64900},
	}
	for _, c := range cases {
		require.InDelta(t, c.qty*(c.sell-c.buy), NetProfit(c.qty, c.buy, c.sell, 0, 0), 1e-9)
	}
}

func TestNetProfit_FeesReduceProfit(t *testing.T) {
	t.Parallel()
	free := NetProfit(0.5, 100, 102, 0, 0)
	taxed := NetProfit(0.5, 100, 102, 0.001, 0.0026)
	require.Less(t, taxed, free)

	// cost = 0.5*100*1.001 = 50.05; revenue = 0.5*102*0.9974 = 50.8674
	require.InDelta(t, 0.8174, taxed, 1e-9)
}

func TestPercentSpread_SubThresholdExample(t *testing.T) {
	t.Parallel()
	// Quotes {A: 100, B: 100.3} → 0.3%.
	require.InDelta(t, 0.3, PercentSpread(100, 100.3), 1e-9)
}
