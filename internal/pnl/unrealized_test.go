package pnl

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-journal/internal/types"
)

func TestUnrealized_ShortOption(t *testing.T) {
	snap, err := Aggregate([]types.Fill{fill(types.Sell, 2, 10)}, types.Short, 50)
	require.NoError(t, err)

	// 100 contracts, entry 10, marked at 8: short profits as price falls.
	got := Unrealized(snap, decimal.NewFromInt(8), types.Short)
	assert.True(t, got.Equal(decimal.NewFromInt(200)), "got %s", got)
}

func TestUnrealized_Long(t *testing.T) {
	snap, err := Aggregate([]types.Fill{fill(types.Buy, 100, 50)}, types.Long, 1)
	require.NoError(t, err)

	got := Unrealized(snap, decimal.NewFromInt(53), types.Long)
	assert.True(t, got.Equal(decimal.NewFromInt(300)), "got %s", got)

	got = Unrealized(snap, decimal.NewFromInt(47), types.Long)
	assert.True(t, got.Equal(decimal.NewFromInt(-300)), "got %s", got)
}

func TestUnrealized_ZeroConditions(t *testing.T) {
	open := types.TradeSnapshot{
		Status:            types.StatusOpen,
		OpenQuantity:      100,
		EntryAveragePrice: decimal.NewFromInt(10),
	}

	t.Run("closed snapshot", func(t *testing.T) {
		closed := open
		closed.Status = types.StatusClosed
		assert.True(t, Unrealized(closed, decimal.NewFromInt(8), types.Long).IsZero())
	})
	t.Run("missing ltp", func(t *testing.T) {
		assert.True(t, Unrealized(open, decimal.Zero, types.Long).IsZero())
	})
	t.Run("no open quantity", func(t *testing.T) {
		flat := open
		flat.OpenQuantity = 0
		assert.True(t, Unrealized(flat, decimal.NewFromInt(8), types.Long).IsZero())
	})
}
