package zerodha

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedLTP(t *testing.T) {
	z := NewZerodha(Params{Mode: ModeDryRun})

	quotes, err := z.LTP(context.Background(), []string{"NSE:INFY", "NFO:NIFTY24DEC24000CE"})
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	q := quotes["NSE:INFY"]
	assert.Equal(t, "NSE", q.Exchange)
	assert.Equal(t, "INFY", q.TradingSymbol)
	assert.True(t, q.LTP.IsPositive())
	assert.False(t, q.AsOf.IsZero())
}

func TestLTP_EmptyInstruments(t *testing.T) {
	z := NewZerodha(Params{Mode: ModeDryRun})

	quotes, err := z.LTP(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestLotSizes_DryRun(t *testing.T) {
	z := NewZerodha(Params{Mode: ModeDryRun})

	lots, err := z.LotSizes(context.Background(), "NFO")
	require.NoError(t, err)
	assert.Empty(t, lots)
}

func TestSplitInstrument(t *testing.T) {
	exchange, symbol := splitInstrument("NSE:NIFTY 50")
	assert.Equal(t, "NSE", exchange)
	assert.Equal(t, "NIFTY 50", symbol)

	exchange, symbol = splitInstrument("INFY")
	assert.Empty(t, exchange)
	assert.Equal(t, "INFY", symbol)
}
