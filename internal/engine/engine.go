// Package engine orchestrates one reconciliation cycle per trade:
// fetch fills, aggregate, persist the snapshot, mark open quantity to
// market.
package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"trading-journal/internal/breakeven"
	"trading-journal/internal/interfaces"
	"trading-journal/internal/logger"
	"trading-journal/internal/pnl"
	"trading-journal/internal/store"
	"trading-journal/internal/tradelog"
	"trading-journal/internal/types"
)

type Engine struct {
	cfg     *store.Config
	journal interfaces.Journal
	quotes  interfaces.Quoter
	lots    interfaces.LotSizer
	solver  *breakeven.Solver
}

func newEngine(cfg *store.Config, j interfaces.Journal, q interfaces.Quoter, lots interfaces.LotSizer) *Engine {
	return &Engine{
		cfg:     cfg,
		journal: j,
		quotes:  q,
		lots:    lots,
		solver:  breakeven.NewSolver(cfg.BreakEven.BandPercent, cfg.BreakEven.Step),
	}
}

func (e *Engine) Reconcile(ctx context.Context, tradeID string) (*types.ReconcileResult, error) {
	trade, err := e.journal.Trade(ctx, tradeID)
	if err != nil {
		return nil, err
	}

	fills, err := e.journal.Fills(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if len(fills) == 0 {
		// Nothing to derive; leave the stored snapshot untouched.
		logger.Debug(ctx, "Trade has no fills, skipping", "trade_id", tradeID)
		return &types.ReconcileResult{Trade: trade}, nil
	}

	snap, err := pnl.Aggregate(fills, trade.Direction, e.lotSize(ctx, trade))
	if err != nil {
		logger.ErrorWithErr(ctx, "Fill aggregation rejected", err, "trade_id", tradeID)
		return nil, fmt.Errorf("aggregate trade %s: %w", tradeID, err)
	}

	result := &types.ReconcileResult{Trade: trade, Snapshot: snap}

	if err := e.journal.UpdateSnapshot(ctx, tradeID, snap); err != nil {
		return nil, err
	}
	result.Persisted = true

	if snap.Status == types.StatusOpen {
		result.LTPUsed = e.fetchLTP(ctx, trade)
		result.UnrealizedPL = pnl.Unrealized(snap, result.LTPUsed, trade.Direction)
	}

	logger.Snapshot(ctx, tradeID, string(snap.Status), snap.OpenQuantity, snap.RealizedPL.String(),
		"symbol", trade.TradingSymbol,
		"unrealized_pl", result.UnrealizedPL.String(),
	)
	_ = tradelog.Append(tradelog.Entry{
		TradeID:      tradeID,
		Symbol:       trade.TradingSymbol,
		Status:       string(snap.Status),
		OpenQuantity: snap.OpenQuantity,
		RealizedPL:   snap.RealizedPL.String(),
		UnrealizedPL: result.UnrealizedPL.String(),
	})

	return result, nil
}

// StrategyBreakEven recomputes every F&O trade of a strategy and feeds
// the still-open legs to the solver. Realized P/L already banked by
// the strategy (closed legs included) offsets the break-even target.
func (e *Engine) StrategyBreakEven(ctx context.Context, strategyID string, currentPrice float64) (breakeven.Result, error) {
	trades, err := e.journal.StrategyTrades(ctx, strategyID)
	if err != nil {
		return breakeven.Result{}, err
	}

	var legs []types.OptionLeg
	realized := decimal.Zero
	for _, trade := range trades {
		if trade.Kind == types.KindStock {
			continue
		}
		fills, err := e.journal.Fills(ctx, trade.ID)
		if err != nil {
			return breakeven.Result{}, err
		}
		if len(fills) == 0 {
			continue
		}
		snap, err := pnl.Aggregate(fills, trade.Direction, e.lotSize(ctx, trade))
		if err != nil {
			logger.ErrorWithErr(ctx, "Fill aggregation rejected", err, "trade_id", trade.ID)
			return breakeven.Result{}, fmt.Errorf("aggregate trade %s: %w", trade.ID, err)
		}

		realized = realized.Add(snap.RealizedPL)
		if snap.Status != types.StatusOpen {
			continue
		}

		position := types.Buy
		if trade.Direction == types.Short {
			position = types.Sell
		}
		legs = append(legs, types.OptionLeg{
			TradingSymbol: trade.TradingSymbol,
			Premium:       snap.EntryAveragePrice,
			Quantity:      snap.EntryQuantity - snap.ExitQuantity,
			Position:      position,
			LotSize:       e.lotSize(ctx, trade),
		})
	}

	realizedF, _ := realized.Float64()
	return e.solver.Solve(ctx, legs, currentPrice, realizedF), nil
}

// lotSize resolves the contract multiplier for a trade: the stored
// value when present, else the catalog keyed by the parsed underlying,
// else 1.
func (e *Engine) lotSize(ctx context.Context, trade types.Trade) int {
	if trade.Kind == types.KindStock {
		return 1
	}
	if trade.LotSize > 1 {
		return trade.LotSize
	}

	parsed, err := breakeven.ParseSymbol(trade.TradingSymbol)
	if err == nil {
		if lot, lerr := e.lots.LotSize(ctx, parsed.Underlying); lerr == nil {
			return lot
		}
	}
	logger.Warn(ctx, "Lot size unknown, defaulting to 1",
		"trade_id", trade.ID, "symbol", trade.TradingSymbol)
	return 1
}

// fetchLTP looks up the trade's last traded price; a missing quote is
// reported as zero so unrealized P/L degrades to zero, not garbage.
func (e *Engine) fetchLTP(ctx context.Context, trade types.Trade) decimal.Decimal {
	inst := trade.Exchange + ":" + trade.TradingSymbol
	quotes, err := e.quotes.LTP(ctx, []string{inst})
	if err != nil {
		logger.ErrorWithErr(ctx, "Quote fetch failed", err, "instrument", inst)
		return decimal.Zero
	}
	q, ok := quotes[inst]
	if !ok {
		logger.Warn(ctx, "No quote for instrument", "instrument", inst)
		return decimal.Zero
	}
	return q.LTP
}
