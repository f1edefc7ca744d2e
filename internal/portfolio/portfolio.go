// Package portfolio rolls reconciled trades up into a P/L summary.
package portfolio

import (
	"github.com/shopspring/decimal"

	"trading-journal/internal/types"
)

// Position is one reconciled trade within the summary.
type Position struct {
	Trade        types.Trade
	Snapshot     types.TradeSnapshot
	UnrealizedPL decimal.Decimal
	HasLTP       bool
}

// Summary aggregates realized and unrealized P/L across trades.
// Complete is false when any open trade lacked an LTP; the unrealized
// total is then a lower bound and is displayed as incomplete.
type Summary struct {
	Positions    []Position
	RealizedPL   decimal.Decimal
	UnrealizedPL decimal.Decimal
	CapitalUsed  decimal.Decimal
	OpenCount    int
	ClosedCount  int
	Complete     bool
}

// Summarize folds reconciliation results into a portfolio summary.
// Results for trades without fills carry no snapshot and are dropped.
func Summarize(results []*types.ReconcileResult) Summary {
	s := Summary{
		RealizedPL:   decimal.Zero,
		UnrealizedPL: decimal.Zero,
		CapitalUsed:  decimal.Zero,
		Complete:     true,
	}

	for _, r := range results {
		if r == nil || r.Snapshot.Status == "" {
			continue
		}

		pos := Position{
			Trade:        r.Trade,
			Snapshot:     r.Snapshot,
			UnrealizedPL: r.UnrealizedPL,
			HasLTP:       !r.LTPUsed.IsZero(),
		}
		s.Positions = append(s.Positions, pos)
		s.RealizedPL = s.RealizedPL.Add(r.Snapshot.RealizedPL)

		switch r.Snapshot.Status {
		case types.StatusOpen:
			s.OpenCount++
			s.CapitalUsed = s.CapitalUsed.Add(r.Snapshot.CapitalUsed)
			if pos.HasLTP {
				s.UnrealizedPL = s.UnrealizedPL.Add(r.UnrealizedPL)
			} else {
				s.Complete = false
			}
		case types.StatusClosed:
			s.ClosedCount++
		}
	}

	return s
}
