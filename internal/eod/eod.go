// Package eod writes an end-of-day CSV summary of the day's snapshot
// recomputes, aggregated per symbol from the tradelog daily file.
package eod

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// auditLine matches the JSON lines written by the tradelog package.
type auditLine struct {
	Time         string
	TradeID      string
	Symbol       string
	Status       string
	OpenQuantity int
	RealizedPL   string
	UnrealizedPL string
}

type aggRow struct {
	Symbol       string
	Trades       int
	OpenTrades   int
	RealizedPL   decimal.Decimal
	UnrealizedPL decimal.Decimal
}

func logDir() string {
	if v := os.Getenv("JOURNAL_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

func istNow() time.Time { return time.Now().In(time.FixedZone("IST", 19800)) }

func dailyAuditFile(t time.Time) string {
	d := t.Format("2006-01-02")
	return filepath.Join(logDir(), d+".txt")
}

func eodCSVPath(t time.Time) string {
	d := t.Format("2006-01-02")
	return filepath.Join(logDir(), "eod", d+".csv")
}

// SummarizeDay aggregates the day's audit lines per symbol and writes
// a CSV. Only the last recompute of each trade counts; earlier lines
// for the same trade are superseded.
func SummarizeDay(t time.Time) (string, error) {
	inPath := dailyAuditFile(t)
	if _, err := os.Stat(inPath); err != nil {
		return "", nil
	}
	f, err := os.Open(inPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	latest := map[string]auditLine{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var al auditLine
		if err := json.Unmarshal([]byte(sc.Text()), &al); err != nil {
			continue
		}
		latest[al.TradeID] = al
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	if len(latest) == 0 {
		return "", nil
	}

	aggs := map[string]*aggRow{}
	for _, al := range latest {
		row := aggs[al.Symbol]
		if row == nil {
			row = &aggRow{Symbol: al.Symbol, RealizedPL: decimal.Zero, UnrealizedPL: decimal.Zero}
			aggs[al.Symbol] = row
		}
		row.Trades++
		if al.Status == "OPEN" {
			row.OpenTrades++
		}
		if d, err := decimal.NewFromString(al.RealizedPL); err == nil {
			row.RealizedPL = row.RealizedPL.Add(d)
		}
		if d, err := decimal.NewFromString(al.UnrealizedPL); err == nil {
			row.UnrealizedPL = row.UnrealizedPL.Add(d)
		}
	}

	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	outPath := eodCSVPath(t)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()
	if err := w.Write([]string{"symbol", "trades", "open_trades", "realized_pl", "unrealized_pl"}); err != nil {
		return "", err
	}

	totalRealized := decimal.Zero
	totalUnrealized := decimal.Zero
	for _, k := range keys {
		r := aggs[k]
		rec := []string{
			r.Symbol,
			strconv.Itoa(r.Trades),
			strconv.Itoa(r.OpenTrades),
			r.RealizedPL.StringFixed(2),
			r.UnrealizedPL.StringFixed(2),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
		totalRealized = totalRealized.Add(r.RealizedPL)
		totalUnrealized = totalUnrealized.Add(r.UnrealizedPL)
	}
	_ = w.Write([]string{"TOTAL", "", "", totalRealized.StringFixed(2), totalUnrealized.StringFixed(2)})
	return outPath, nil
}

func SummarizeToday() (string, error) { return SummarizeDay(istNow()) }

// ShouldRunNow reports whether the market has closed (15:40 IST) and
// today's summary has not been written yet.
func ShouldRunNow() (bool, string) {
	now := istNow()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 15, 40, 0, 0, now.Location())
	outPath := eodCSVPath(now)
	if now.After(cutoff) {
		if _, err := os.Stat(outPath); errors.Is(err, os.ErrNotExist) {
			return true, outPath
		}
	}
	return false, outPath
}
