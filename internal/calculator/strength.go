package calculator

import (
	"fmt"
	"math"

	"FXStrength/internal/model"
)

// leg holds the universe indices of a pair's base and quote units.
type leg struct {
	base, quote int
}

// ComputeStrength derives per-currency strength over the inclusive window
// [windowStart, windowEnd] of a set of aligned pair series.
//
// For every date and pair the day-over-day percent return is credited to the
// base unit and debited from the quote unit. A unit's raw score is the mean of
// its signed returns that day, or 0 when no pair touches it. Raw scores are
// then min-max rescaled to [0, 100] jointly over every unit and every date of
// the window; a flat window scores 50 throughout.
//
// The first date of a series has no predecessor, so index 0 is compared with
// itself and contributes a 0% return.
//
// Output is ordered by date, then by unit in universe order. The function is
// pure and safe for concurrent use.
func ComputeStrength(universe []string, pairs []model.PairSeries, windowStart, windowEnd int) ([]model.UnitStrengthPoint, error) {
	legs, err := validate(universe, pairs, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	days := windowEnd - windowStart + 1
	raw := make([][]float64, days)
	sums := make([]float64, len(universe))
	counts := make([]int, len(universe))

	for i := windowStart; i <= windowEnd; i++ {
		for u := range sums {
			sums[u] = 0
			counts[u] = 0
		}
		prevIdx := i - 1
		if prevIdx < 0 {
			prevIdx = 0
		}
		for k, p := range pairs {
			if err := checkPrice(p, prevIdx); err != nil {
				return nil, err
			}
			if err := checkPrice(p, i); err != nil {
				return nil, err
			}
			prev := p.Points[prevIdx].Price
			curr := p.Points[i].Price
			pct := (curr - prev) / prev * 100
			if math.IsInf(pct, 0) || math.IsNaN(pct) {
				return nil, &ComputationError{
					Pair: p.Symbol, Index: i, Date: p.Points[i].Date, Price: curr,
					Reason: fmt.Sprintf("return from %g overflows", prev),
				}
			}

			sums[legs[k].base] += pct
			counts[legs[k].base]++
			sums[legs[k].quote] -= pct
			counts[legs[k].quote]++
		}

		row := make([]float64, len(universe))
		for u := range row {
			if counts[u] > 0 {
				row[u] = sums[u] / float64(counts[u])
			}
		}
		raw[i-windowStart] = row
	}

	low, high := ScoreRange(raw)
	dates := pairs[0].Points
	out := make([]model.UnitStrengthPoint, 0, days*len(universe))
	for d, row := range raw {
		date := dates[windowStart+d].Date
		for u, v := range row {
			out = append(out, model.UnitStrengthPoint{
				Date:            date,
				Unit:            universe[u],
				RawScore:        v,
				NormalizedScore: Normalize(v, low, high),
			})
		}
	}
	return out, nil
}

func validate(universe []string, pairs []model.PairSeries, windowStart, windowEnd int) ([]leg, error) {
	if len(universe) == 0 {
		return nil, configErrorf("universe is empty")
	}
	if len(pairs) == 0 {
		return nil, configErrorf("no pairs supplied")
	}

	index := make(map[string]int, len(universe))
	for i, u := range universe {
		if u == "" {
			return nil, configErrorf("universe contains an empty unit")
		}
		if _, dup := index[u]; dup {
			return nil, configErrorf("unit %s appears twice in universe", u)
		}
		index[u] = i
	}

	legs := make([]leg, len(pairs))
	for k, p := range pairs {
		base, quote, err := ParsePair(p.Symbol)
		if err != nil {
			return nil, err
		}
		bi, ok := index[base]
		if !ok {
			return nil, configErrorf("pair %s references unit %s outside the universe", p.Symbol, base)
		}
		qi, ok := index[quote]
		if !ok {
			return nil, configErrorf("pair %s references unit %s outside the universe", p.Symbol, quote)
		}
		legs[k] = leg{base: bi, quote: qi}
	}

	n := len(pairs[0].Points)
	if n == 0 {
		return nil, configErrorf("pair %s has no points", pairs[0].Symbol)
	}
	for i := 1; i < n; i++ {
		if !pairs[0].Points[i].Date.After(pairs[0].Points[i-1].Date) {
			return nil, configErrorf("pair %s dates are not strictly ascending at index %d", pairs[0].Symbol, i)
		}
	}
	for _, p := range pairs[1:] {
		if len(p.Points) != n {
			return nil, configErrorf("pair %s has %d points, expected %d", p.Symbol, len(p.Points), n)
		}
		for i := range p.Points {
			if !p.Points[i].Date.Equal(pairs[0].Points[i].Date) {
				return nil, configErrorf("pair %s is not aligned with %s at index %d", p.Symbol, pairs[0].Symbol, i)
			}
		}
	}

	if windowStart < 0 || windowEnd < windowStart || windowEnd > n-1 {
		return nil, configErrorf("window [%d, %d] outside available range [0, %d]", windowStart, windowEnd, n-1)
	}
	return legs, nil
}

func checkPrice(p model.PairSeries, i int) error {
	price := p.Points[i].Price
	if price > 0 && !math.IsInf(price, 0) {
		return nil
	}
	return &ComputationError{Pair: p.Symbol, Index: i, Date: p.Points[i].Date, Price: price}
}
