package breakeven

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-journal/internal/types"
)

func leg(symbol string, premium float64, qty int, pos types.OrderType, lot int) types.OptionLeg {
	return types.OptionLeg{
		TradingSymbol: symbol,
		Premium:       decimal.NewFromFloat(premium),
		Quantity:      qty,
		Position:      pos,
		LotSize:       lot,
	}
}

func TestSolve_SingleLongCall(t *testing.T) {
	s := NewSolver(DefaultBandPercent, DefaultStep)
	legs := []types.OptionLeg{leg("NIFTY24DEC100CE", 5, 1, types.Buy, 1)}

	res := s.Solve(context.Background(), legs, 100, 0)

	// Net premium 5: the call pays off past strike+premium.
	require.True(t, res.UpperFound)
	assert.InDelta(t, 105, res.Upper, 0.2)
	// A lone long call has no downside crossing; max loss is capped.
	assert.False(t, res.LowerFound)
	assert.Empty(t, res.Skipped)
}

func TestSolve_LongStraddle(t *testing.T) {
	s := NewSolver(DefaultBandPercent, DefaultStep)
	legs := []types.OptionLeg{
		leg("NIFTY24DEC100CE", 3, 1, types.Buy, 1),
		leg("NIFTY24DEC100PE", 4, 1, types.Buy, 1),
	}

	res := s.Solve(context.Background(), legs, 100, 0)

	require.True(t, res.UpperFound)
	require.True(t, res.LowerFound)
	assert.InDelta(t, 107, res.Upper, 0.2)
	assert.InDelta(t, 93, res.Lower, 0.2)
}

func TestSolve_RealizedPLOffsetsTarget(t *testing.T) {
	s := NewSolver(DefaultBandPercent, DefaultStep)
	legs := []types.OptionLeg{leg("NIFTY24DEC100CE", 5, 1, types.Buy, 1)}

	res := s.Solve(context.Background(), legs, 100, 3)

	require.True(t, res.UpperFound)
	assert.InDelta(t, 102, res.Upper, 0.2)
}

func TestSolve_LotScaledContracts(t *testing.T) {
	s := NewSolver(DefaultBandPercent, DefaultStep)
	// 2 lots of 50: net premium 5*100=500, payoff (S-100)*100.
	// Contracts cancel out, so the crossing stays near 105.
	legs := []types.OptionLeg{leg("NIFTY24DEC100CE", 5, 2, types.Buy, 50)}

	res := s.Solve(context.Background(), legs, 100, 0)

	require.True(t, res.UpperFound)
	assert.InDelta(t, 105, res.Upper, 0.2)
}

func TestSolve_FutureLeg(t *testing.T) {
	s := NewSolver(DefaultBandPercent, DefaultStep)
	// Long future entered at 98: no premium, pure price delta. Target
	// is 0, so the first price above entry crosses.
	legs := []types.OptionLeg{leg("NIFTY24DECFUT", 98, 1, types.Buy, 1)}

	res := s.Solve(context.Background(), legs, 100, 0)

	require.True(t, res.UpperFound)
	assert.InDelta(t, 100, res.Upper, 0.2)
}

func TestSolve_SkipsUnparseableLegs(t *testing.T) {
	s := NewSolver(DefaultBandPercent, DefaultStep)
	legs := []types.OptionLeg{
		leg("NOT-A-SYMBOL", 5, 1, types.Buy, 1),
		leg("NIFTY24DEC100CE", 5, 1, types.Buy, 1),
	}

	res := s.Solve(context.Background(), legs, 100, 0)

	assert.Equal(t, []string{"NOT-A-SYMBOL"}, res.Skipped)
	assert.True(t, res.UpperFound)
}

func TestSolve_NoUsableLegs(t *testing.T) {
	s := NewSolver(DefaultBandPercent, DefaultStep)

	res := s.Solve(context.Background(), nil, 100, 0)
	assert.False(t, res.UpperFound)
	assert.False(t, res.LowerFound)

	res = s.Solve(context.Background(), []types.OptionLeg{leg("bad", 5, 1, types.Buy, 1)}, 100, 0)
	assert.False(t, res.UpperFound)
	assert.False(t, res.LowerFound)
	assert.Len(t, res.Skipped, 1)
}

func TestSolve_NonPositiveCurrentPrice(t *testing.T) {
	s := NewSolver(DefaultBandPercent, DefaultStep)
	legs := []types.OptionLeg{leg("NIFTY24DEC100CE", 5, 1, types.Buy, 1)}

	res := s.Solve(context.Background(), legs, 0, 0)
	assert.False(t, res.UpperFound)
	assert.False(t, res.LowerFound)
}

func TestNewSolver_Defaults(t *testing.T) {
	s := NewSolver(0, -1)
	assert.Equal(t, DefaultBandPercent, s.bandPercent)
	assert.Equal(t, DefaultStep, s.step)
}
