// Package pnl derives trade state from order fills: weighted average
// entry/exit prices, open quantity, realized and unrealized P/L.
package pnl

import (
	"fmt"

	"github.com/shopspring/decimal"

	"trading-journal/internal/types"
)

// ValidationError rejects a malformed fill before it can poison the
// running averages.
type ValidationError struct {
	FillIndex int
	FillID    string
	Reason    string
}

func (e *ValidationError) Error() string {
	if e.FillID != "" {
		return fmt.Sprintf("invalid fill %s (index %d): %s", e.FillID, e.FillIndex, e.Reason)
	}
	return fmt.Sprintf("invalid fill at index %d: %s", e.FillIndex, e.Reason)
}

// Aggregate replays the full fill list of a trade, in the order
// supplied, and derives its snapshot. It is a pure function: identical
// input always yields an identical snapshot.
//
// Direction fixes side classification: for a LONG trade a BUY opens
// and a SELL closes, for a SHORT trade the reverse. lotSize scales
// every quantity-derived and monetary figure for F&O trades; pass 1
// (or 0, which is normalized to 1) for stocks.
//
// An empty fill list returns a zero snapshot and no error. A fill with
// non-positive quantity, negative price or an unknown order type is
// rejected with a *ValidationError, as is a closing fill that would
// take the open quantity negative.
func Aggregate(fills []types.Fill, direction types.Direction, lotSize int) (types.TradeSnapshot, error) {
	var snap types.TradeSnapshot
	if len(fills) == 0 {
		return snap, nil
	}
	if lotSize <= 0 {
		lotSize = 1
	}

	var (
		entryQty int
		exitQty  int
		entryAvg decimal.Decimal
		exitAvg  decimal.Decimal
	)

	for i, f := range fills {
		if err := validateFill(i, f); err != nil {
			return types.TradeSnapshot{}, err
		}

		if isEntry(direction, f.OrderType) {
			entryAvg = mergeAverage(entryAvg, entryQty, f.Price, f.Quantity)
			entryQty += f.Quantity
			continue
		}

		if exitQty+f.Quantity > entryQty {
			return types.TradeSnapshot{}, &ValidationError{
				FillIndex: i,
				FillID:    f.ID,
				Reason: fmt.Sprintf("exit quantity %d exceeds entry quantity %d",
					exitQty+f.Quantity, entryQty),
			}
		}
		exitAvg = mergeAverage(exitAvg, exitQty, f.Price, f.Quantity)
		exitQty += f.Quantity
	}

	lot := decimal.NewFromInt(int64(lotSize))
	openLots := entryQty - exitQty

	snap.EntryQuantity = entryQty
	snap.ExitQuantity = exitQty
	snap.EntryAveragePrice = entryAvg.Round(2)
	snap.ExitAveragePrice = exitAvg.Round(2)
	snap.Quantity = entryQty * lotSize
	snap.OpenQuantity = openLots * lotSize
	snap.ClosedQuantity = exitQty * lotSize
	snap.PremiumAmount = entryAvg.Mul(decimal.NewFromInt(int64(entryQty))).Mul(lot).Round(2)
	snap.EntryDate = fills[0].Timestamp

	closedContracts := decimal.NewFromInt(int64(exitQty)).Mul(lot)
	realized := exitAvg.Sub(entryAvg).Mul(closedContracts)
	if direction == types.Short {
		realized = entryAvg.Sub(exitAvg).Mul(closedContracts)
	}
	snap.RealizedPL = realized.Round(2)

	if openLots != 0 {
		snap.Status = types.StatusOpen
		entryNotional := entryAvg.Mul(decimal.NewFromInt(int64(entryQty)))
		exitNotional := exitAvg.Mul(decimal.NewFromInt(int64(exitQty)))
		snap.CapitalUsed = entryNotional.Sub(exitNotional).Mul(lot).Round(2)
	} else {
		snap.Status = types.StatusClosed
		snap.CapitalUsed = decimal.Zero
		exit := fills[len(fills)-1].Timestamp
		snap.ExitDate = &exit
	}

	return snap, nil
}

// mergeAverage folds one fill into a quantity-weighted running average:
// newAvg = (oldAvg*oldQty + price*qty) / (oldQty+qty). With oldQty 0
// this degenerates to the fill price itself.
func mergeAverage(oldAvg decimal.Decimal, oldQty int, price decimal.Decimal, qty int) decimal.Decimal {
	oldQ := decimal.NewFromInt(int64(oldQty))
	newQ := decimal.NewFromInt(int64(qty))
	total := oldAvg.Mul(oldQ).Add(price.Mul(newQ))
	return total.Div(oldQ.Add(newQ))
}

func isEntry(direction types.Direction, ot types.OrderType) bool {
	return (direction == types.Long && ot == types.Buy) ||
		(direction == types.Short && ot == types.Sell)
}

func validateFill(i int, f types.Fill) error {
	if f.OrderType != types.Buy && f.OrderType != types.Sell {
		return &ValidationError{FillIndex: i, FillID: f.ID,
			Reason: fmt.Sprintf("unknown order type %q", f.OrderType)}
	}
	if f.Quantity <= 0 {
		return &ValidationError{FillIndex: i, FillID: f.ID,
			Reason: fmt.Sprintf("quantity must be positive, got %d", f.Quantity)}
	}
	if f.Price.IsNegative() {
		return &ValidationError{FillIndex: i, FillID: f.ID,
			Reason: fmt.Sprintf("price must not be negative, got %s", f.Price)}
	}
	return nil
}
