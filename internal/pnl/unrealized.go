package pnl

import (
	"github.com/shopspring/decimal"

	"trading-journal/internal/types"
)

// Unrealized marks an open position to the last traded price. It
// returns zero when the snapshot is not OPEN, when the LTP is missing
// (zero) or when there is no open quantity.
//
// OpenQuantity is already in contract units for F&O snapshots, so no
// further lot-size scaling is applied here.
func Unrealized(snap types.TradeSnapshot, ltp decimal.Decimal, direction types.Direction) decimal.Decimal {
	if snap.Status != types.StatusOpen || ltp.IsZero() || snap.OpenQuantity == 0 {
		return decimal.Zero
	}

	open := decimal.NewFromInt(int64(snap.OpenQuantity))
	diff := ltp.Sub(snap.EntryAveragePrice)
	if direction == types.Short {
		diff = snap.EntryAveragePrice.Sub(ltp)
	}
	return open.Mul(diff).Round(2)
}
