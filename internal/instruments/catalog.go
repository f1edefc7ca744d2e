// Package instruments resolves F&O contract multipliers (lot sizes).
// The catalog starts from the static config table and can be refreshed
// from the broker instrument dump or the NSE lot-size page.
package instruments

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"trading-journal/internal/interfaces"
	"trading-journal/internal/logger"
)

type Catalog struct {
	mu   sync.RWMutex
	lots map[string]int
}

var _ interfaces.LotSizer = (*Catalog)(nil)

func NewCatalog(static map[string]int) *Catalog {
	lots := make(map[string]int, len(static))
	for underlying, lot := range static {
		if lot > 0 {
			lots[strings.ToUpper(underlying)] = lot
		}
	}
	return &Catalog{lots: lots}
}

// LotSize returns the contract multiplier for an underlying. Unknown
// underlyings are an error; callers decide whether to fall back to 1.
func (c *Catalog) LotSize(ctx context.Context, underlying string) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	lot, ok := c.lots[strings.ToUpper(underlying)]
	if !ok {
		return 0, fmt.Errorf("unknown underlying %q", underlying)
	}
	return lot, nil
}

// Merge folds freshly fetched lot sizes into the catalog, overriding
// stale static values.
func (c *Catalog) Merge(ctx context.Context, lots map[string]int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	updated := 0
	for underlying, lot := range lots {
		if lot <= 0 {
			continue
		}
		c.lots[strings.ToUpper(underlying)] = lot
		updated++
	}
	logger.Debug(ctx, "Lot-size catalog merged", "updated", updated, "total", len(c.lots))
}

// Size reports how many underlyings the catalog knows.
func (c *Catalog) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lots)
}
