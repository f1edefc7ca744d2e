package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	Buy  OrderType = "BUY"
	Sell OrderType = "SELL"
)

type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
)

type TradeStatus string

const (
	StatusOpen   TradeStatus = "OPEN"
	StatusClosed TradeStatus = "CLOSED"
)

type InstrumentKind string

const (
	KindStock  InstrumentKind = "STOCK"
	KindOption InstrumentKind = "OPTION"
	KindFuture InstrumentKind = "FUTURE"
)

// Fill is a single executed order leg of a trade, as stored by the
// journal backend. Fills arrive in chronological order and are never
// re-sorted here.
type Fill struct {
	ID        string          `json:"id"`
	OrderType OrderType       `json:"ordertype"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"date"`
	Notes     string          `json:"notes,omitempty"`
	Tags      []string        `json:"tags,omitempty"`
}

// Trade identifies a journal trade and the instrument it is on.
// LotSize is 1 for stocks and the contract multiplier for F&O.
type Trade struct {
	ID            string         `json:"id"`
	StrategyID    string         `json:"strategy_id,omitempty"`
	TradingSymbol string         `json:"tradingsymbol"`
	Exchange      string         `json:"exchange"`
	Kind          InstrumentKind `json:"kind"`
	Direction     Direction      `json:"direction"`
	LotSize       int            `json:"lot_size"`
}

// TradeSnapshot is the derived state of a trade, recomputed from the
// full fill list whenever a fill is added, edited or deleted.
//
// Entry/Exit quantities are in lot units; Quantity, OpenQuantity and
// ClosedQuantity are in contract units (lots * lot size). Monetary
// fields are rounded to 2 decimals at construction.
type TradeSnapshot struct {
	EntryQuantity     int             `json:"entry_quantity"`
	ExitQuantity      int             `json:"exit_quantity"`
	EntryAveragePrice decimal.Decimal `json:"entry_average_price"`
	ExitAveragePrice  decimal.Decimal `json:"exit_average_price"`

	Quantity       int `json:"quantity"`
	OpenQuantity   int `json:"open_quantity"`
	ClosedQuantity int `json:"closed_quantity"`

	Status        TradeStatus     `json:"status"`
	CapitalUsed   decimal.Decimal `json:"capital_used"`
	RealizedPL    decimal.Decimal `json:"realized_pl"`
	PremiumAmount decimal.Decimal `json:"premium_amount"`

	EntryDate time.Time  `json:"entry_date"`
	ExitDate  *time.Time `json:"exit_date,omitempty"`
}

// OptionLeg is one open option or future position of a strategy, fed
// to the break-even solver. Strike, expiry and leg type are parsed
// from TradingSymbol.
type OptionLeg struct {
	TradingSymbol string
	Premium       decimal.Decimal
	Quantity      int
	Position      OrderType
	LotSize       int
}

// ReconcileResult is the outcome of one recompute-and-persist cycle
// for a trade. UnrealizedPL is zero when no LTP was available.
type ReconcileResult struct {
	Trade        Trade           `json:"trade"`
	Snapshot     TradeSnapshot   `json:"snapshot"`
	UnrealizedPL decimal.Decimal `json:"unrealized_pl"`
	LTPUsed      decimal.Decimal `json:"ltp_used"`
	Persisted    bool            `json:"persisted"`
}

// Quote is a last-traded-price observation for one instrument.
type Quote struct {
	Exchange      string
	TradingSymbol string
	LTP           decimal.Decimal
	AsOf          time.Time
}
