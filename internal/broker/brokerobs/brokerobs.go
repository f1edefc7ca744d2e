package brokerobs

import (
	"context"
	"time"

	"trading-journal/internal/interfaces"
	"trading-journal/internal/logger"
	"trading-journal/internal/trace"
	"trading-journal/internal/types"
)

// observableQuoter wraps a Quoter with logging and tracing.
type observableQuoter struct {
	quoter interfaces.Quoter
}

var _ interfaces.Quoter = (*observableQuoter)(nil)

func Wrap(q interfaces.Quoter) interfaces.Quoter {
	return &observableQuoter{
		quoter: q,
	}
}

func (oq *observableQuoter) LTP(ctx context.Context, instruments []string) (map[string]types.Quote, error) {
	ctx, span := trace.StartSpan(ctx, "broker.LTP")
	defer span.End()

	start := time.Now()
	quotes, err := oq.quoter.LTP(ctx, instruments)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch quotes", err, "requested", len(instruments))
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Quotes fetched",
		"requested", len(instruments),
		"received", len(quotes),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return quotes, nil
}
