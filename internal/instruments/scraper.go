package instruments

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"trading-journal/internal/logger"
)

const defaultLotSizeURL = "https://www.nseindia.com/products-services/equity-derivatives-list-underlyings-information"

// Scraper refreshes lot sizes from the NSE derivatives underlyings
// page. It is the no-broker-session fallback for the catalog; with a
// live Kite session the instrument dump is preferred.
type Scraper struct {
	url     string
	timeout time.Duration
}

func NewScraper(url string, timeout time.Duration) *Scraper {
	if url == "" {
		url = defaultLotSizeURL
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Scraper{url: url, timeout: timeout}
}

// FetchLotSizes scrapes the underlying/market-lot table. Rows that do
// not parse are skipped.
func (s *Scraper) FetchLotSizes(ctx context.Context) (map[string]int, error) {
	lots := make(map[string]int)

	c := colly.NewCollector()
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})

	c.OnHTML("table tbody tr", func(e *colly.HTMLElement) {
		symbol, lot, ok := parseLotRow(e.DOM)
		if !ok {
			return
		}
		lots[symbol] = lot
	})

	var fetchErr error
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("fetch %s: %w", s.url, err)
	})

	if err := c.Visit(s.url); err != nil {
		return nil, fmt.Errorf("visit %s: %w", s.url, err)
	}
	c.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	if len(lots) == 0 {
		return nil, fmt.Errorf("no lot sizes parsed from %s", s.url)
	}

	logger.Info(ctx, "Lot sizes scraped", "url", s.url, "underlyings", len(lots))
	return lots, nil
}

// parseLotRow extracts (symbol, lot size) from a table row: symbol in
// the second cell, market lot in the last. Header and malformed rows
// fail the numeric parse and are dropped.
func parseLotRow(row *goquery.Selection) (string, int, bool) {
	cells := row.Find("td")
	if cells.Length() < 3 {
		return "", 0, false
	}

	symbol := strings.ToUpper(strings.TrimSpace(cells.Eq(1).Text()))
	lotText := strings.ReplaceAll(strings.TrimSpace(cells.Eq(cells.Length()-1).Text()), ",", "")
	if symbol == "" || lotText == "" {
		return "", 0, false
	}

	lot, err := strconv.Atoi(lotText)
	if err != nil || lot <= 0 {
		return "", 0, false
	}
	return symbol, lot, true
}
