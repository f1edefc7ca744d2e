package breakeven

import (
	"context"
	"math"

	"trading-journal/internal/logger"
	"trading-journal/internal/types"
)

const (
	DefaultBandPercent = 20.0
	DefaultStep        = 0.1
)

// Result holds the break-even prices found on either side of the
// current underlying price. The Found flags distinguish "no crossing
// inside the search band" from a crossing at a genuinely low price;
// Lower/Upper are only meaningful when the matching flag is set.
// Skipped lists trading symbols that matched neither symbol grammar.
type Result struct {
	Lower      float64
	Upper      float64
	LowerFound bool
	UpperFound bool
	Skipped    []string
}

// Solver scans a band around the current underlying price for the
// points where the combined position P/L crosses its target. The
// payoff is piecewise linear with kinks at each strike, so a bounded
// linear scan is used rather than a closed-form solve.
type Solver struct {
	bandPercent float64
	step        float64
}

func NewSolver(bandPercent, step float64) *Solver {
	if bandPercent <= 0 {
		bandPercent = DefaultBandPercent
	}
	if step <= 0 {
		step = DefaultStep
	}
	return &Solver{bandPercent: bandPercent, step: step}
}

type solvedLeg struct {
	parsed    ParsedSymbol
	contracts float64
	premium   float64
	buy       bool
}

// Solve computes the lower and upper break-even prices for a set of
// open option/future legs. realizedPL already banked by the strategy
// offsets the net-premium target. Legs with unparseable symbols are
// skipped and reported, not fatal; with no usable legs both sides come
// back not-found.
func (s *Solver) Solve(ctx context.Context, legs []types.OptionLeg, currentPrice, realizedPL float64) Result {
	var res Result
	if currentPrice <= 0 {
		return res
	}

	solved := make([]solvedLeg, 0, len(legs))
	for _, leg := range legs {
		parsed, err := ParseSymbol(leg.TradingSymbol)
		if err != nil {
			logger.Warn(ctx, "Skipping unparseable leg", "symbol", leg.TradingSymbol, "error", err)
			res.Skipped = append(res.Skipped, leg.TradingSymbol)
			continue
		}
		lot := leg.LotSize
		if lot <= 0 {
			lot = 1
		}
		premium, _ := leg.Premium.Float64()
		solved = append(solved, solvedLeg{
			parsed:    parsed,
			contracts: float64(leg.Quantity * lot),
			premium:   premium,
			buy:       leg.Position == types.Buy,
		})
	}
	if len(solved) == 0 {
		return res
	}

	// Premium paid on bought legs, received on sold. Futures carry no
	// premium; their P/L is pure price delta.
	netPremium := 0.0
	for _, leg := range solved {
		if leg.parsed.Type == Future {
			continue
		}
		if leg.buy {
			netPremium += leg.premium * leg.contracts
		} else {
			netPremium -= leg.premium * leg.contracts
		}
	}
	target := netPremium - realizedPL

	steps := int(currentPrice * s.bandPercent / 100 / s.step)
	res.Upper, res.UpperFound = s.scan(solved, currentPrice, target, steps, +1)
	res.Lower, res.LowerFound = s.scan(solved, currentPrice, target, steps, -1)
	return res
}

// scan walks outward from the current price in fixed increments and
// returns the first price where the combined payoff exceeds the
// target, rounded to 2 decimals.
func (s *Solver) scan(legs []solvedLeg, currentPrice, target float64, steps, dir int) (float64, bool) {
	for i := 0; i <= steps; i++ {
		price := currentPrice + float64(dir)*float64(i)*s.step
		if price <= 0 {
			break
		}
		if payoffAt(legs, price) > target {
			return math.Round(price*100) / 100, true
		}
	}
	return 0, false
}

// payoffAt values the combined position at a hypothetical underlying
// price. Out-of-the-money option legs contribute nothing.
func payoffAt(legs []solvedLeg, price float64) float64 {
	total := 0.0
	for _, leg := range legs {
		var pl float64
		switch leg.parsed.Type {
		case Call:
			if price > leg.parsed.Strike {
				pl = (price - leg.parsed.Strike) * leg.contracts
			}
		case Put:
			if price < leg.parsed.Strike {
				pl = (leg.parsed.Strike - price) * leg.contracts
			}
		case Future:
			pl = (price - leg.premium) * leg.contracts
		}
		if leg.buy {
			total += pl
		} else {
			total -= pl
		}
	}
	return total
}
