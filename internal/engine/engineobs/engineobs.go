package engineobs

import (
	"context"
	"time"

	"trading-journal/internal/breakeven"
	"trading-journal/internal/interfaces"
	"trading-journal/internal/logger"
	"trading-journal/internal/trace"
	"trading-journal/internal/types"
)

type observableEngine struct {
	engine interfaces.Engine
}

var _ interfaces.Engine = (*observableEngine)(nil)

func Wrap(eng interfaces.Engine) interfaces.Engine {
	return &observableEngine{
		engine: eng,
	}
}

func (oe *observableEngine) Reconcile(ctx context.Context, tradeID string) (*types.ReconcileResult, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Reconcile")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting reconciliation",
		"trade_id", tradeID,
	)

	result, err := oe.engine.Reconcile(ctx, tradeID)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Reconciliation failed", err,
			"trade_id", tradeID,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Reconciliation completed",
		"trade_id", tradeID,
		"status", string(result.Snapshot.Status),
		"open_quantity", result.Snapshot.OpenQuantity,
		"realized_pl", result.Snapshot.RealizedPL.String(),
		"persisted", result.Persisted,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}

func (oe *observableEngine) StrategyBreakEven(ctx context.Context, strategyID string, currentPrice float64) (breakeven.Result, error) {
	ctx, span := trace.StartSpan(ctx, "engine.StrategyBreakEven")
	defer span.End()

	start := time.Now()

	result, err := oe.engine.StrategyBreakEven(ctx, strategyID, currentPrice)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Break-even solve failed", err,
			"strategy_id", strategyID,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return breakeven.Result{}, err
	}

	logger.InfoSkip(ctx, 1, "Break-even solved",
		"strategy_id", strategyID,
		"current_price", currentPrice,
		"lower", result.Lower,
		"lower_found", result.LowerFound,
		"upper", result.Upper,
		"upper_found", result.UpperFound,
		"skipped_legs", len(result.Skipped),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}
