// Package journal is the client for the external trade-storage
// backend. The core consumes its contracts; it does not define them.
package journal

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"trading-journal/internal/api"
	"trading-journal/internal/interfaces"
	"trading-journal/internal/types"
)

type Params struct {
	BaseURL   string
	AuthToken string
	Timeout   time.Duration
}

type Client struct {
	api   *api.Client
	retry *api.RetryConfig
}

var _ interfaces.Journal = (*Client)(nil)

func NewClient(p Params) *Client {
	if p.Timeout == 0 {
		p.Timeout = 15 * time.Second
	}
	opts := []api.ClientOption{
		api.WithBaseURL(strings.TrimRight(p.BaseURL, "/")),
		api.WithTimeout(p.Timeout),
		api.WithLogging(true),
	}
	if p.AuthToken != "" {
		opts = append(opts, api.WithBearerToken(p.AuthToken))
	}
	return &Client{
		api:   api.NewClient(opts...),
		retry: api.DefaultRetryConfig(),
	}
}

func (c *Client) Trade(ctx context.Context, tradeID string) (types.Trade, error) {
	resp, err := c.api.GET(ctx, "/trades/"+tradeID)
	if err != nil {
		return types.Trade{}, fmt.Errorf("fetch trade %s: %w", tradeID, err)
	}
	var dto tradeDTO
	if err := resp.ParseJSON(&dto); err != nil {
		return types.Trade{}, fmt.Errorf("decode trade %s: %w", tradeID, err)
	}
	return dto.toTrade(), nil
}

// Fills returns the trade's fills in the order the backend stores
// them, which is chronological ascending. They are not re-sorted.
func (c *Client) Fills(ctx context.Context, tradeID string) ([]types.Fill, error) {
	resp, err := c.api.GET(ctx, "/trades/"+tradeID+"/orders")
	if err != nil {
		return nil, fmt.Errorf("fetch fills for trade %s: %w", tradeID, err)
	}
	var dtos []fillDTO
	if err := resp.ParseJSON(&dtos); err != nil {
		return nil, fmt.Errorf("decode fills for trade %s: %w", tradeID, err)
	}
	fills := make([]types.Fill, 0, len(dtos))
	for _, d := range dtos {
		fills = append(fills, d.toFill())
	}
	return fills, nil
}

func (c *Client) StrategyTrades(ctx context.Context, strategyID string) ([]types.Trade, error) {
	resp, err := c.api.GET(ctx, "/strategies/"+strategyID+"/trades")
	if err != nil {
		return nil, fmt.Errorf("fetch trades for strategy %s: %w", strategyID, err)
	}
	var dtos []tradeDTO
	if err := resp.ParseJSON(&dtos); err != nil {
		return nil, fmt.Errorf("decode trades for strategy %s: %w", strategyID, err)
	}
	trades := make([]types.Trade, 0, len(dtos))
	for _, d := range dtos {
		trades = append(trades, d.toTrade())
	}
	return trades, nil
}

// UpdateSnapshot persists the recomputed snapshot fields with a
// partial update, retried with backoff. The Idempotency-Key header is
// generated once per call so retries of the same snapshot cannot be
// applied twice.
func (c *Client) UpdateSnapshot(ctx context.Context, tradeID string, snap types.TradeSnapshot) error {
	req := api.NewRequest(http.MethodPatch, "/trades/"+tradeID).
		WithContext(ctx).
		WithBody(snapshotPatch(snap)).
		WithHeader("Idempotency-Key", uuid.NewString())
	if _, err := c.api.DoWithRetry(req, c.retry); err != nil {
		return fmt.Errorf("persist snapshot for trade %s: %w", tradeID, err)
	}
	return nil
}
