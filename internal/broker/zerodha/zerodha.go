// Package zerodha supplies last-traded-prices and instrument metadata
// from the Kite Connect API. In DRY_RUN mode quotes are simulated so
// the journal can run without a broker session.
package zerodha

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	kiteconnect "github.com/zerodha/gokiteconnect/v4"
	"golang.org/x/time/rate"

	"trading-journal/internal/interfaces"
	"trading-journal/internal/logger"
	"trading-journal/internal/types"
)

const (
	ModeDryRun = "DRY_RUN"
	ModeLive   = "LIVE"

	// Kite's REST quote endpoints are rate limited per second.
	quoteRequestsPerSecond = 3
)

type Params struct {
	Mode        string
	APIKey      string
	AccessToken string
	QuoteSource string // REST or TICKER
}

type Zerodha struct {
	p       Params
	kc      *kiteconnect.Client
	limiter *rate.Limiter

	ticker       *ltpTicker
	isTickerInit bool
}

var _ interfaces.Quoter = (*Zerodha)(nil)

func NewZerodha(p Params) *Zerodha {
	z := &Zerodha{
		p:       p,
		limiter: rate.NewLimiter(rate.Limit(quoteRequestsPerSecond), quoteRequestsPerSecond),
	}

	if p.Mode == ModeLive {
		z.kc = kiteconnect.New(p.APIKey)
		z.kc.SetAccessToken(p.AccessToken)
	}
	if p.Mode == ModeLive && p.QuoteSource == "TICKER" {
		z.ticker = newLTPTicker(p.APIKey, p.AccessToken)
	}

	return z
}

// LTP fetches last traded prices for "EXCHANGE:TRADINGSYMBOL" keys.
// Instruments unknown to the feed are absent from the result map.
func (z *Zerodha) LTP(ctx context.Context, instruments []string) (map[string]types.Quote, error) {
	if len(instruments) == 0 {
		return map[string]types.Quote{}, nil
	}

	if z.p.Mode != ModeLive {
		return z.simulatedLTP(ctx, instruments), nil
	}

	quotes := make(map[string]types.Quote, len(instruments))

	// Ticker cache first; anything it has not seen yet falls through
	// to the REST quote endpoint.
	missing := instruments
	if z.isTickerInit {
		missing = missing[:0:0]
		for _, inst := range instruments {
			if q, ok := z.ticker.last(inst); ok {
				quotes[inst] = q
			} else {
				missing = append(missing, inst)
			}
		}
	}
	if len(missing) == 0 {
		return quotes, nil
	}

	if err := z.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := z.kc.GetLTP(missing...)
	if err != nil {
		return nil, fmt.Errorf("kite LTP request: %w", err)
	}

	now := time.Now()
	for inst, q := range resp {
		if q.LastPrice == 0 {
			continue
		}
		exchange, symbol := splitInstrument(inst)
		quotes[inst] = types.Quote{
			Exchange:      exchange,
			TradingSymbol: symbol,
			LTP:           decimal.NewFromFloat(q.LastPrice),
			AsOf:          now,
		}
	}
	return quotes, nil
}

func (z *Zerodha) simulatedLTP(ctx context.Context, instruments []string) map[string]types.Quote {
	quotes := make(map[string]types.Quote, len(instruments))
	now := time.Now()
	for _, inst := range instruments {
		exchange, symbol := splitInstrument(inst)
		price := 1000 + rand.Float64()*100
		quotes[inst] = types.Quote{
			Exchange:      exchange,
			TradingSymbol: symbol,
			LTP:           decimal.NewFromFloat(price).Round(2),
			AsOf:          now,
		}
	}
	logger.Debug(ctx, "Simulated quotes generated", "count", len(quotes))
	return quotes
}

// LotSizes returns the contract multiplier per underlying name from
// the exchange instrument dump (e.g. NFO). Only meaningful in LIVE
// mode; DRY_RUN returns an empty map so callers fall back to the
// static catalog.
func (z *Zerodha) LotSizes(ctx context.Context, exchange string) (map[string]int, error) {
	if z.p.Mode != ModeLive {
		return map[string]int{}, nil
	}

	if err := z.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	instruments, err := z.kc.GetInstrumentsByExchange(exchange)
	if err != nil {
		return nil, fmt.Errorf("kite instrument dump for %s: %w", exchange, err)
	}

	lots := make(map[string]int)
	for _, inst := range instruments {
		if inst.LotSize <= 0 {
			continue
		}
		lots[inst.Name] = int(inst.LotSize)
	}
	logger.Info(ctx, "Instrument lot sizes loaded", "exchange", exchange, "underlyings", len(lots))
	return lots, nil
}

// Start brings up the ticker stream and subscribes the given
// instruments. A no-op without a ticker quote source.
func (z *Zerodha) Start(ctx context.Context, instruments []string) error {
	if z.ticker == nil || z.isTickerInit {
		return nil
	}

	if err := z.ticker.start(ctx, z.kc, instruments); err != nil {
		return fmt.Errorf("start ticker: %w", err)
	}
	z.isTickerInit = true
	return nil
}

func (z *Zerodha) Stop(ctx context.Context) {
	if z.ticker != nil {
		z.ticker.stop(ctx)
	}
}

func splitInstrument(inst string) (exchange, symbol string) {
	parts := strings.SplitN(inst, ":", 2)
	if len(parts) != 2 {
		return "", inst
	}
	return parts[0], parts[1]
}
