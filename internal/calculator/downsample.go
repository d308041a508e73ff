package calculator

import "FXStrength/internal/model"

// DownsampleThreshold is the frame count at or below which no thinning happens.
const DownsampleThreshold = 30

// DownsampleStep returns the stride used to thin a period's series.
func DownsampleStep(p model.Period) int {
	switch p {
	case model.Period3M:
		return 3
	case model.Period6M:
		return 6
	case model.Period1Y:
		return 12
	default:
		return 1
	}
}

// Downsample keeps every step-th frame, counting from the first.
// Scores are never re-aggregated; frames are only dropped.
func Downsample(frames []model.StrengthFrame, step int) []model.StrengthFrame {
	if len(frames) <= DownsampleThreshold || step <= 1 {
		return frames
	}
	out := make([]model.StrengthFrame, 0, len(frames)/step+1)
	for i := 0; i < len(frames); i += step {
		out = append(out, frames[i])
	}
	return out
}

// Frames groups date-ordered strength points into one frame per date.
func Frames(points []model.UnitStrengthPoint) []model.StrengthFrame {
	var frames []model.StrengthFrame
	for _, p := range points {
		if n := len(frames); n == 0 || !frames[n-1].Date.Equal(p.Date) {
			frames = append(frames, model.StrengthFrame{
				Date:       p.Date,
				Normalized: make(map[string]float64),
				Raw:        make(map[string]float64),
			})
		}
		f := &frames[len(frames)-1]
		f.Normalized[p.Unit] = p.NormalizedScore
		f.Raw[p.Unit] = p.RawScore
	}
	return frames
}
