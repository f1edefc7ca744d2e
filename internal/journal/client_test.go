package journal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-journal/internal/api"
	"trading-journal/internal/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Params{BaseURL: srv.URL, AuthToken: "tok-123"})
}

func TestClient_Trade(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trades/t-1", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"id":            "t-1",
			"strategy_id":   "s-9",
			"tradingsymbol": "NIFTY24DEC24000CE",
			"exchange":      "NFO",
			"kind":          "option",
			"direction":     "short",
			"lot_size":      0,
		})
	})

	trade, err := c.Trade(context.Background(), "t-1")
	require.NoError(t, err)

	assert.Equal(t, types.KindOption, trade.Kind)
	assert.Equal(t, types.Short, trade.Direction)
	// Missing lot size degrades to 1, not 0.
	assert.Equal(t, 1, trade.LotSize)
}

func TestClient_FillsPreserveOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trades/t-1/orders", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "f-1", "ordertype": "Buy", "quantity": 100, "price": "50", "date": "2025-08-01T10:00:00Z"},
			{"id": "f-2", "ordertype": "sell", "quantity": 40, "price": "55.25", "date": "2025-08-01T11:00:00Z"},
		})
	})

	fills, err := c.Fills(context.Background(), "t-1")
	require.NoError(t, err)
	require.Len(t, fills, 2)

	assert.Equal(t, "f-1", fills[0].ID)
	assert.Equal(t, types.Buy, fills[0].OrderType)
	assert.Equal(t, types.Sell, fills[1].OrderType)
	assert.True(t, fills[1].Price.Equal(decimal.NewFromFloat(55.25)))
	assert.True(t, fills[0].Timestamp.Before(fills[1].Timestamp))
}

func TestClient_StrategyTrades(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/strategies/s-9/trades", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "t-1", "kind": "OPTION", "direction": "LONG", "lot_size": 75},
			{"id": "t-2", "kind": "STOCK", "direction": "LONG", "lot_size": 1},
		})
	})

	trades, err := c.StrategyTrades(context.Background(), "s-9")
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, 75, trades[0].LotSize)
	assert.Equal(t, types.KindStock, trades[1].Kind)
}

func TestClient_UpdateSnapshot(t *testing.T) {
	var got map[string]any
	var idempotencyKey string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/trades/t-1", r.URL.Path)
		idempotencyKey = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})

	exit := time.Date(2025, 8, 1, 15, 0, 0, 0, time.UTC)
	snap := types.TradeSnapshot{
		EntryQuantity:     200,
		ExitQuantity:      200,
		EntryAveragePrice: decimal.NewFromInt(55),
		ExitAveragePrice:  decimal.NewFromInt(70),
		Status:            types.StatusClosed,
		RealizedPL:        decimal.NewFromInt(3000),
		ExitDate:          &exit,
	}

	require.NoError(t, c.UpdateSnapshot(context.Background(), "t-1", snap))

	assert.NotEmpty(t, idempotencyKey)
	assert.Equal(t, "3000", got["realized_pl"])
	assert.Equal(t, "CLOSED", got["status"])
	assert.Contains(t, got, "exit_date")
}

func TestClient_UpdateSnapshotRetries(t *testing.T) {
	attempts := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	c.retry = &api.RetryConfig{MaxAttempts: 2, InitialWait: time.Millisecond, MaxWait: time.Millisecond}

	require.NoError(t, c.UpdateSnapshot(context.Background(), "t-1", types.TradeSnapshot{}))
	assert.Equal(t, 2, attempts)
}

func TestClient_ErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := c.Trade(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
