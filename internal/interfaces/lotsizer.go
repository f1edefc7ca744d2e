package interfaces

import "context"

// LotSizer resolves the contract multiplier for an F&O underlying.
// Stocks always resolve to 1.
type LotSizer interface {
	LotSize(ctx context.Context, underlying string) (int, error)
}
