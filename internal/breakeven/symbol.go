// Package breakeven locates the underlying prices at which a multi-leg
// option/future position crosses its net-premium target.
package breakeven

import (
	"fmt"
	"regexp"
	"strconv"
)

type LegType string

const (
	Call   LegType = "CE"
	Put    LegType = "PE"
	Future LegType = "FUT"
)

// NSE derivative symbol grammar: optional underlying letters, a
// 2-digit-year + 3-letter-month expiry code, then either a numeric
// strike with a CE/PE suffix or a bare FUT suffix.
// e.g. NIFTY24DEC24000CE, BANKNIFTY25JAN48500.50PE, RELIANCE24DECFUT.
var (
	optionSymbolRe = regexp.MustCompile(`^([A-Z]+)?(\d{2}[A-Z]{3})(\d+(?:\.\d+)?)(CE|PE)$`)
	futureSymbolRe = regexp.MustCompile(`^([A-Z]+)?(\d{2}[A-Z]{3})FUT$`)
)

// ParsedSymbol is the instrument identity extracted from a trading
// symbol. Strike is zero for futures.
type ParsedSymbol struct {
	Underlying string
	Expiry     string
	Strike     float64
	Type       LegType
}

// ParseSymbol decodes an F&O trading symbol. Symbols matching neither
// the option nor the future grammar are an error; callers treat those
// legs as skippable, not fatal.
func ParseSymbol(symbol string) (ParsedSymbol, error) {
	if m := optionSymbolRe.FindStringSubmatch(symbol); m != nil {
		strike, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return ParsedSymbol{}, fmt.Errorf("parse strike %q in %q: %w", m[3], symbol, err)
		}
		return ParsedSymbol{
			Underlying: m[1],
			Expiry:     m[2],
			Strike:     strike,
			Type:       LegType(m[4]),
		}, nil
	}
	if m := futureSymbolRe.FindStringSubmatch(symbol); m != nil {
		return ParsedSymbol{
			Underlying: m[1],
			Expiry:     m[2],
			Type:       Future,
		}, nil
	}
	return ParsedSymbol{}, fmt.Errorf("unrecognized trading symbol %q", symbol)
}
