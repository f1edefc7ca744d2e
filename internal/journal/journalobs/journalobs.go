package journalobs

import (
	"context"
	"time"

	"trading-journal/internal/interfaces"
	"trading-journal/internal/logger"
	"trading-journal/internal/trace"
	"trading-journal/internal/types"
)

type observableJournal struct {
	journal interfaces.Journal
}

var _ interfaces.Journal = (*observableJournal)(nil)

func Wrap(j interfaces.Journal) interfaces.Journal {
	return &observableJournal{
		journal: j,
	}
}

func (oj *observableJournal) Trade(ctx context.Context, tradeID string) (types.Trade, error) {
	ctx, span := trace.StartSpan(ctx, "journal.Trade")
	defer span.End()

	trade, err := oj.journal.Trade(ctx, tradeID)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch trade", err, "trade_id", tradeID)
		return types.Trade{}, err
	}
	return trade, nil
}

func (oj *observableJournal) Fills(ctx context.Context, tradeID string) ([]types.Fill, error) {
	ctx, span := trace.StartSpan(ctx, "journal.Fills")
	defer span.End()

	start := time.Now()
	fills, err := oj.journal.Fills(ctx, tradeID)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch fills", err, "trade_id", tradeID)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Fills fetched",
		"trade_id", tradeID,
		"count", len(fills),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return fills, nil
}

func (oj *observableJournal) StrategyTrades(ctx context.Context, strategyID string) ([]types.Trade, error) {
	ctx, span := trace.StartSpan(ctx, "journal.StrategyTrades")
	defer span.End()

	trades, err := oj.journal.StrategyTrades(ctx, strategyID)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch strategy trades", err, "strategy_id", strategyID)
		return nil, err
	}
	return trades, nil
}

func (oj *observableJournal) UpdateSnapshot(ctx context.Context, tradeID string, snap types.TradeSnapshot) error {
	ctx, span := trace.StartSpan(ctx, "journal.UpdateSnapshot")
	defer span.End()

	start := time.Now()
	if err := oj.journal.UpdateSnapshot(ctx, tradeID, snap); err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to persist snapshot", err, "trade_id", tradeID)
		return err
	}

	logger.InfoSkip(ctx, 1, "Snapshot persisted",
		"trade_id", tradeID,
		"status", string(snap.Status),
		"open_quantity", snap.OpenQuantity,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
