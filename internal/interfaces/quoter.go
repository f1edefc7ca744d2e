package interfaces

import (
	"context"

	"trading-journal/internal/types"
)

// Quoter supplies last-traded-prices from the broker quote feed.
// Instruments are addressed as "EXCHANGE:TRADINGSYMBOL". Quotes for
// instruments the feed does not know are absent from the result map,
// never returned as zero.
type Quoter interface {
	LTP(ctx context.Context, instruments []string) (map[string]types.Quote, error)
}
