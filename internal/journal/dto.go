package journal

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"trading-journal/internal/types"
)

// Wire shapes of the journal backend. Order-type tokens arrive in
// mixed case; normalization happens here so the aggregator only ever
// sees the canonical BUY/SELL values (or an unknown token it rejects).

type fillDTO struct {
	ID        string          `json:"id"`
	OrderType string          `json:"ordertype"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Date      time.Time       `json:"date"`
	Notes     string          `json:"notes"`
	Tags      []string        `json:"tags"`
}

func (d fillDTO) toFill() types.Fill {
	return types.Fill{
		ID:        d.ID,
		OrderType: types.OrderType(strings.ToUpper(d.OrderType)),
		Quantity:  d.Quantity,
		Price:     d.Price,
		Timestamp: d.Date,
		Notes:     d.Notes,
		Tags:      d.Tags,
	}
}

type tradeDTO struct {
	ID            string `json:"id"`
	StrategyID    string `json:"strategy_id"`
	TradingSymbol string `json:"tradingsymbol"`
	Exchange      string `json:"exchange"`
	Kind          string `json:"kind"`
	Direction     string `json:"direction"`
	LotSize       int    `json:"lot_size"`
}

func (d tradeDTO) toTrade() types.Trade {
	lot := d.LotSize
	if lot <= 0 {
		lot = 1
	}
	return types.Trade{
		ID:            d.ID,
		StrategyID:    d.StrategyID,
		TradingSymbol: d.TradingSymbol,
		Exchange:      d.Exchange,
		Kind:          types.InstrumentKind(strings.ToUpper(d.Kind)),
		Direction:     types.Direction(strings.ToUpper(d.Direction)),
		LotSize:       lot,
	}
}

// snapshotPatch is the partial-update body for persisting a
// recomputed snapshot. Only derived fields are written back.
func snapshotPatch(s types.TradeSnapshot) map[string]any {
	patch := map[string]any{
		"entry_quantity":      s.EntryQuantity,
		"exit_quantity":       s.ExitQuantity,
		"entry_average_price": s.EntryAveragePrice,
		"exit_average_price":  s.ExitAveragePrice,
		"quantity":            s.Quantity,
		"open_quantity":       s.OpenQuantity,
		"closed_quantity":     s.ClosedQuantity,
		"status":              s.Status,
		"capital_used":        s.CapitalUsed,
		"realized_pl":         s.RealizedPL,
		"premium_amount":      s.PremiumAmount,
		"entry_date":          s.EntryDate,
	}
	if s.ExitDate != nil {
		patch["exit_date"] = *s.ExitDate
	}
	return patch
}
