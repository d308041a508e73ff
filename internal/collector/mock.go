package collector

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"FXStrength/internal/model"

	"github.com/cespare/xxhash/v2"
)

// MockFetcher returns a deterministic random walk per pair for development and testing.
type MockFetcher struct {
	Seed  int64
	End   time.Time                // last generated date; zero means today (UTC)
	Bars  map[string][]model.OHLCV // fixed bars by pair, bypassing generation
	Fails map[string]error         // pairs that fail with the given error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(ctx context.Context, pair string, days int) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.Fails[pair]; ok {
		return nil, err
	}
	if bars, ok := m.Bars[pair]; ok {
		return bars, nil
	}
	end := m.End
	if end.IsZero() {
		end = time.Now().UTC()
	}
	return generateMockBars(pair, days, m.Seed, end), nil
}

// generateMockBars walks one close per calendar day ending on end. JPY crosses
// start between 80 and 140, everything else between 0.5 and 2.0, and each day
// moves by at most half a percent.
func generateMockBars(pair string, count int, seed int64, end time.Time) []model.OHLCV {
	rng := rand.New(rand.NewSource(seed ^ int64(xxhash.Sum64String(pair))))
	price := 0.5 + rng.Float64()*1.5
	if strings.Contains(pair, "JPY") {
		price = 80 + rng.Float64()*60
	}
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		open := price
		price *= 1 + (rng.Float64()-0.5)*0.01
		bars[i] = model.OHLCV{
			Time:  end.AddDate(0, 0, i-count+1),
			Open:  open,
			High:  max(open, price) * 1.001,
			Low:   min(open, price) * 0.999,
			Close: price,
		}
	}
	return bars
}
