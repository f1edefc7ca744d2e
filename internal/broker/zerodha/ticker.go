package zerodha

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	kiteconnect "github.com/zerodha/gokiteconnect/v4"
	"github.com/zerodha/gokiteconnect/v4/models"
	kiteticker "github.com/zerodha/gokiteconnect/v4/ticker"

	"trading-journal/internal/logger"
	"trading-journal/internal/types"
)

const connectionWaitTime = 2 * time.Second

// ltpTicker keeps a last-traded-price cache fed by the Kite WebSocket
// stream, so repeated unrealized-P/L refreshes do not hit the REST
// quote endpoint.
type ltpTicker struct {
	apiKey      string
	accessToken string
	ticker      *kiteticker.Ticker

	mu                sync.RWMutex
	quotes            map[uint32]types.Quote
	tokenToInstrument map[uint32]string
	instrumentToToken map[string]uint32
}

func newLTPTicker(apiKey, accessToken string) *ltpTicker {
	return &ltpTicker{
		apiKey:            apiKey,
		accessToken:       accessToken,
		quotes:            make(map[uint32]types.Quote),
		tokenToInstrument: make(map[uint32]string),
		instrumentToToken: make(map[string]uint32),
	}
}

func (lt *ltpTicker) start(ctx context.Context, kc *kiteconnect.Client, instruments []string) error {
	if err := lt.resolveTokens(ctx, kc, instruments); err != nil {
		return err
	}

	lt.ticker = kiteticker.New(lt.apiKey, lt.accessToken)
	lt.ticker.OnConnect(lt.onConnect)
	lt.ticker.OnError(lt.onError)
	lt.ticker.OnClose(lt.onClose)
	lt.ticker.OnReconnect(lt.onReconnect)
	lt.ticker.OnNoReconnect(lt.onNoReconnect)
	lt.ticker.OnTick(lt.onTick)

	go lt.ticker.Serve()
	time.Sleep(connectionWaitTime)

	tokens := make([]uint32, 0, len(lt.instrumentToToken))
	lt.mu.RLock()
	for _, token := range lt.instrumentToToken {
		tokens = append(tokens, token)
	}
	lt.mu.RUnlock()

	if err := lt.ticker.Subscribe(tokens); err != nil {
		return fmt.Errorf("subscribe %d instruments: %w", len(tokens), err)
	}
	if err := lt.ticker.SetMode(kiteticker.ModeLTP, tokens); err != nil {
		return fmt.Errorf("set LTP mode: %w", err)
	}
	return nil
}

func (lt *ltpTicker) stop(ctx context.Context) {
	if lt.ticker != nil {
		lt.ticker.Stop()
	}
	logger.Info(ctx, "Ticker stopped")
}

// resolveTokens maps "EXCHANGE:SYMBOL" keys to instrument tokens via
// the per-exchange instrument dumps.
func (lt *ltpTicker) resolveTokens(ctx context.Context, kc *kiteconnect.Client, instruments []string) error {
	wanted := make(map[string]bool, len(instruments))
	exchanges := make(map[string]bool)
	for _, inst := range instruments {
		wanted[inst] = true
		exchange, _ := splitInstrument(inst)
		if exchange != "" {
			exchanges[exchange] = true
		}
	}

	lt.mu.Lock()
	defer lt.mu.Unlock()
	for exchange := range exchanges {
		dump, err := kc.GetInstrumentsByExchange(exchange)
		if err != nil {
			return fmt.Errorf("instrument dump for %s: %w", exchange, err)
		}
		for _, inst := range dump {
			key := inst.Exchange + ":" + inst.Tradingsymbol
			if !wanted[key] {
				continue
			}
			token := uint32(inst.InstrumentToken)
			lt.tokenToInstrument[token] = key
			lt.instrumentToToken[key] = token
		}
	}

	for inst := range wanted {
		if _, ok := lt.instrumentToToken[inst]; !ok {
			logger.Warn(ctx, "Instrument not found in dump, no live quotes for it", "instrument", inst)
		}
	}
	return nil
}

func (lt *ltpTicker) last(instrument string) (types.Quote, bool) {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	token, ok := lt.instrumentToToken[instrument]
	if !ok {
		return types.Quote{}, false
	}
	q, ok := lt.quotes[token]
	return q, ok
}

func (lt *ltpTicker) onTick(tick models.Tick) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	inst, ok := lt.tokenToInstrument[tick.InstrumentToken]
	if !ok || tick.LastPrice == 0 {
		return
	}
	exchange, symbol := splitInstrument(inst)
	lt.quotes[tick.InstrumentToken] = types.Quote{
		Exchange:      exchange,
		TradingSymbol: symbol,
		LTP:           decimal.NewFromFloat(tick.LastPrice),
		AsOf:          time.Now(),
	}
}

func (lt *ltpTicker) onConnect() {
	logger.Info(context.Background(), "Ticker connected")
}

func (lt *ltpTicker) onError(err error) {
	logger.ErrorWithErr(context.Background(), "Ticker error", err)
}

func (lt *ltpTicker) onClose(code int, reason string) {
	logger.Warn(context.Background(), "Ticker connection closed", "code", code, "reason", reason)
}

func (lt *ltpTicker) onReconnect(attempt int, delay time.Duration) {
	logger.Info(context.Background(), "Ticker reconnecting", "attempt", attempt, "delay", delay)
}

func (lt *ltpTicker) onNoReconnect(attempt int) {
	logger.Warn(context.Background(), "Ticker reconnection failed - giving up", "attempts", attempt)
}
