package instruments

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_LotSize(t *testing.T) {
	c := NewCatalog(map[string]int{"nifty": 75, "BANKNIFTY": 35, "bad": 0})

	lot, err := c.LotSize(context.Background(), "NIFTY")
	require.NoError(t, err)
	assert.Equal(t, 75, lot)

	// Lookup is case-insensitive.
	lot, err = c.LotSize(context.Background(), "banknifty")
	require.NoError(t, err)
	assert.Equal(t, 35, lot)

	// Non-positive static entries are dropped.
	_, err = c.LotSize(context.Background(), "BAD")
	assert.Error(t, err)

	_, err = c.LotSize(context.Background(), "RELIANCE")
	assert.Error(t, err)
}

func TestCatalog_Merge(t *testing.T) {
	c := NewCatalog(map[string]int{"NIFTY": 50})

	c.Merge(context.Background(), map[string]int{
		"nifty":    75, // refresh overrides stale static value
		"RELIANCE": 250,
		"JUNK":     0,
	})

	assert.Equal(t, 2, c.Size())

	lot, err := c.LotSize(context.Background(), "NIFTY")
	require.NoError(t, err)
	assert.Equal(t, 75, lot)

	lot, err = c.LotSize(context.Background(), "RELIANCE")
	require.NoError(t, err)
	assert.Equal(t, 250, lot)
}

func TestParseLotRow(t *testing.T) {
	const page = `<table><tbody>
		<tr><td>1</td><td>NIFTY 50</td><td>NIFTY</td><td>75</td></tr>
		<tr><td>2</td><td>reliance</td><td>RELIANCE</td><td>1,250</td></tr>
		<tr><td>3</td><td>BROKEN</td><td>BROKEN</td><td>n/a</td></tr>
		<tr><td>4</td><td></td><td>EMPTY</td><td>50</td></tr>
		<tr><td>short row</td></tr>
	</tbody></table>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	var symbols []string
	var lots []int
	doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		symbol, lot, ok := parseLotRow(row)
		if !ok {
			return
		}
		symbols = append(symbols, symbol)
		lots = append(lots, lot)
	})

	assert.Equal(t, []string{"NIFTY 50", "RELIANCE"}, symbols)
	assert.Equal(t, []int{75, 1250}, lots)
}
