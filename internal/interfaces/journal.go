package interfaces

import (
	"context"

	"trading-journal/internal/types"
)

// Journal is the external trade-storage backend. Fills come back in
// chronological order; snapshots are persisted with a partial update
// keyed by trade id.
type Journal interface {
	Trade(ctx context.Context, tradeID string) (types.Trade, error)
	Fills(ctx context.Context, tradeID string) ([]types.Fill, error)
	StrategyTrades(ctx context.Context, strategyID string) ([]types.Trade, error)
	UpdateSnapshot(ctx context.Context, tradeID string, snap types.TradeSnapshot) error
}
