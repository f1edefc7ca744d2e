package engine

import (
	"trading-journal/internal/interfaces"
	"trading-journal/internal/store"
)

func New(cfg *store.Config, j interfaces.Journal, q interfaces.Quoter, lots interfaces.LotSizer) interfaces.Engine {
	return newEngine(cfg, j, q, lots)
}
