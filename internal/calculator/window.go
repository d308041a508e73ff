package calculator

import "FXStrength/internal/model"

// wholeAxis marks a period that spans every available date.
const wholeAxis = -1

// periodLookback is the number of dates a period reaches back from the latest one.
var periodLookback = map[model.Period]int{
	model.Period1D: 1,
	model.Period1W: 7,
	model.Period1M: 30,
	model.Period3M: 90,
	model.Period6M: 180,
	model.Period1Y: wholeAxis,
}

// WindowForPeriod maps a period onto inclusive indices of an n-date axis.
// The window always ends on the latest date and is clamped at index 0;
// 1y starts at index 0 so the history length sets how far it reaches.
func WindowForPeriod(n int, p model.Period) (start, end int, err error) {
	if n <= 0 {
		return 0, 0, configErrorf("no dates available")
	}
	if p == "" {
		p = model.DefaultPeriod
	}
	lookback, ok := periodLookback[p]
	if !ok {
		return 0, 0, configErrorf("unknown period %q", p)
	}
	end = n - 1
	start = end - lookback
	if lookback == wholeAxis || start < 0 {
		start = 0
	}
	return start, end, nil
}
