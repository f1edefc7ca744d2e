package interfaces

import (
	"context"

	"trading-journal/internal/breakeven"
	"trading-journal/internal/types"
)

type Engine interface {
	// Reconcile recomputes one trade's snapshot from its full fill
	// list, persists it, and marks any open quantity to market.
	Reconcile(ctx context.Context, tradeID string) (*types.ReconcileResult, error)

	// StrategyBreakEven solves the break-even prices for a strategy's
	// open F&O legs around a manually supplied underlying price.
	StrategyBreakEven(ctx context.Context, strategyID string, currentPrice float64) (breakeven.Result, error)
}
