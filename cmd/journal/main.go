package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trading-journal/internal/eod"
	"trading-journal/internal/interfaces"
	"trading-journal/internal/logger"
	"trading-journal/internal/portfolio"
	"trading-journal/internal/store"
	"trading-journal/internal/trace"
	"trading-journal/internal/types"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	must(initializeSystem())

	cfg, err := store.LoadConfig("config.yaml")
	must(err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer func() {
		_ = trace.Shutdown(context.Background())
		_ = logger.Shutdown(context.Background())
	}()

	compressOldLogs(ctx)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	j := initializeJournal(cfg)
	z, quotes := initializeQuoter(ctx, cfg)
	defer z.Stop(ctx)

	if cfg.Mode == "LIVE" && cfg.Quotes.Source == "TICKER" {
		if err := z.Start(ctx, tickerInstruments(ctx, cfg, j)); err != nil {
			logger.ErrorWithErr(ctx, "Ticker start failed, falling back to REST quotes", err)
		}
	}

	lots := initializeLots(ctx, cfg, z)
	eng := initializeEngine(cfg, j, quotes, lots)

	tick := time.NewTicker(time.Duration(cfg.PollSeconds) * time.Second)
	defer tick.Stop()
	eodTick := time.NewTicker(60 * time.Second)
	defer eodTick.Stop()

	logger.Info(ctx, "Journal reconciler started",
		"trades", len(cfg.Trades), "strategies", len(cfg.Strategies), "poll_seconds", cfg.PollSeconds)

	runCycle(ctx, cfg, eng, quotes)
	for {
		select {
		case <-tick.C:
			runCycle(ctx, cfg, eng, quotes)
		case <-eodTick.C:
			if ok, _ := eod.ShouldRunNow(); ok {
				if p, err := eod.SummarizeToday(); err == nil && p != "" {
					logger.Info(ctx, "EOD CSV written", "path", p)
				}
			}
		case <-sigc:
			logger.Info(ctx, "Shutting down")
			if p, err := eod.SummarizeToday(); err == nil && p != "" {
				logger.Info(ctx, "EOD CSV written", "path", p)
			}
			return
		case <-ctx.Done():
			return
		}
	}
}

// runCycle reconciles every configured trade, prints the portfolio
// table, then reports break-even bands per strategy.
func runCycle(ctx context.Context, cfg *store.Config, eng interfaces.Engine, quotes interfaces.Quoter) {
	results := make([]*types.ReconcileResult, 0, len(cfg.Trades))
	for _, id := range cfg.Trades {
		res, err := eng.Reconcile(ctx, id)
		if err != nil {
			logger.ErrorWithErr(ctx, "Reconcile failed", err, "trade_id", id)
			continue
		}
		results = append(results, res)
	}

	if len(results) > 0 {
		portfolio.RenderTable(os.Stdout, portfolio.Summarize(results))
	}

	for _, st := range cfg.Strategies {
		spot := spotPrice(ctx, quotes, st.Spot)
		if spot <= 0 {
			logger.Warn(ctx, "No spot price, skipping break-even", "strategy", st.ID, "instrument", st.Spot)
			continue
		}
		res, err := eng.StrategyBreakEven(ctx, st.ID, spot)
		if err != nil {
			logger.ErrorWithErr(ctx, "Break-even solve failed", err, "strategy", st.ID)
			continue
		}
		logger.Info(ctx, "Break-even band",
			"strategy", st.ID,
			"spot", spot,
			"lower", res.Lower, "lower_found", res.LowerFound,
			"upper", res.Upper, "upper_found", res.UpperFound,
			"skipped_legs", len(res.Skipped),
		)
	}
}

// spotPrice resolves the last traded price used to anchor a strategy's
// break-even scan. Zero means the quote was unavailable.
func spotPrice(ctx context.Context, quotes interfaces.Quoter, instrument string) float64 {
	qs, err := quotes.LTP(ctx, []string{instrument})
	if err != nil {
		logger.ErrorWithErr(ctx, "Spot quote fetch failed", err, "instrument", instrument)
		return 0
	}
	q, ok := qs[instrument]
	if !ok {
		return 0
	}
	f, _ := q.LTP.Float64()
	return f
}

// tickerInstruments resolves the instrument list to stream: every
// configured trade's exchange-qualified symbol plus strategy spots.
func tickerInstruments(ctx context.Context, cfg *store.Config, j interfaces.Journal) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(inst string) {
		if inst != "" && !seen[inst] {
			seen[inst] = true
			out = append(out, inst)
		}
	}

	for _, id := range cfg.Trades {
		trade, err := j.Trade(ctx, id)
		if err != nil {
			logger.Warn(ctx, "Could not resolve trade for ticker subscription", "trade_id", id, "error", err)
			continue
		}
		add(trade.Exchange + ":" + trade.TradingSymbol)
	}
	for _, st := range cfg.Strategies {
		add(st.Spot)
	}
	return out
}
