package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"trading-journal/internal/broker/brokerobs"
	"trading-journal/internal/broker/zerodha"
	"trading-journal/internal/engine"
	"trading-journal/internal/engine/engineobs"
	"trading-journal/internal/instruments"
	"trading-journal/internal/interfaces"
	"trading-journal/internal/journal"
	"trading-journal/internal/journal/journalobs"
	"trading-journal/internal/logger"
	"trading-journal/internal/store"
	"trading-journal/internal/trace"
	"trading-journal/internal/tradelog"
)

// initializeSystem initializes logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// compressOldLogs compresses old audit log files if retention is configured
func compressOldLogs(ctx context.Context) {
	if v := os.Getenv("JOURNAL_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := tradelog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}
}

// initializeJournal builds the backend client with observability
func initializeJournal(cfg *store.Config) interfaces.Journal {
	token := ""
	if cfg.Journal.AuthTokenEnv != "" {
		token = os.Getenv(cfg.Journal.AuthTokenEnv)
	}
	client := journal.NewClient(journal.Params{
		BaseURL:   cfg.Journal.BaseURL,
		AuthToken: token,
		Timeout:   time.Duration(cfg.Journal.TimeoutSeconds) * time.Second,
	})
	return journalobs.Wrap(client)
}

// initializeQuoter builds the broker quote source with observability
func initializeQuoter(ctx context.Context, cfg *store.Config) (*zerodha.Zerodha, interfaces.Quoter) {
	z := zerodha.NewZerodha(zerodha.Params{
		Mode:        cfg.Mode,
		APIKey:      os.Getenv("KITE_API_KEY"),
		AccessToken: os.Getenv("KITE_ACCESS_TOKEN"),
		QuoteSource: cfg.Quotes.Source,
	})

	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - quotes will be simulated")
	} else if cfg.Quotes.Source == "TICKER" {
		logger.Info(ctx, "Using live ticker stream for quotes")
	} else {
		logger.Info(ctx, "Using REST quote endpoint")
	}

	return z, brokerobs.Wrap(z)
}

// initializeLots builds the lot-size catalog and refreshes it from the
// configured source.
func initializeLots(ctx context.Context, cfg *store.Config, z *zerodha.Zerodha) *instruments.Catalog {
	catalog := instruments.NewCatalog(cfg.Lots.Static)

	switch cfg.Lots.Refresh {
	case "KITE":
		lots, err := z.LotSizes(ctx, "NFO")
		if err != nil {
			logger.Warn(ctx, "Lot-size refresh from Kite failed - using static table", "error", err)
			break
		}
		catalog.Merge(ctx, lots)
	case "NSE":
		scraper := instruments.NewScraper(cfg.Lots.NSEURL, 0)
		lots, err := scraper.FetchLotSizes(ctx)
		if err != nil {
			logger.Warn(ctx, "Lot-size scrape from NSE failed - using static table", "error", err)
			break
		}
		catalog.Merge(ctx, lots)
	}

	logger.Info(ctx, "Lot-size catalog ready", "underlyings", catalog.Size())
	return catalog
}

// initializeEngine builds the reconciliation engine with observability
func initializeEngine(cfg *store.Config, j interfaces.Journal, q interfaces.Quoter, lots interfaces.LotSizer) interfaces.Engine {
	eng := engine.New(cfg, j, q, lots)
	return engineobs.Wrap(eng)
}
