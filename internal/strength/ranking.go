package strength

import (
	"sort"

	"FXStrength/internal/model"
)

// Rank orders units strongest first by their normalized score in frame.
// Ties keep universe order.
func Rank(universe []string, frame model.StrengthFrame) []model.RankEntry {
	out := make([]model.RankEntry, 0, len(universe))
	for _, u := range universe {
		out = append(out, model.RankEntry{
			Unit:            u,
			NormalizedScore: frame.Normalized[u],
			RawScore:        frame.Raw[u],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NormalizedScore > out[j].NormalizedScore
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// FilterUnits returns copies of frames restricted to units.
func FilterUnits(frames []model.StrengthFrame, units []string) []model.StrengthFrame {
	out := make([]model.StrengthFrame, len(frames))
	for i, f := range frames {
		nf := model.StrengthFrame{
			Date:       f.Date,
			Normalized: make(map[string]float64, len(units)),
			Raw:        make(map[string]float64, len(units)),
		}
		for _, u := range units {
			if v, ok := f.Normalized[u]; ok {
				nf.Normalized[u] = v
				nf.Raw[u] = f.Raw[u]
			}
		}
		out[i] = nf
	}
	return out
}
