package calculator

import "math"

// ScoreRange scans every raw score of a window and returns the global low and high.
func ScoreRange(rows [][]float64) (low, high float64) {
	low = math.Inf(1)
	high = math.Inf(-1)
	for _, row := range rows {
		for _, v := range row {
			if v > high {
				high = v
			}
			if v < low {
				low = v
			}
		}
	}
	return low, high
}

// Normalize rescales v into [0, 100] against [low, high]. A flat range maps to 50.
// Operands are halved first so ranges near the float64 limit stay finite.
func Normalize(v, low, high float64) float64 {
	if high == low {
		return 50
	}
	pos := (v/2 - low/2) / (high/2 - low/2) * 100
	if pos < 0 {
		pos = 0
	}
	if pos > 100 {
		pos = 100
	}
	return pos
}
