package collector

import (
	"context"
	"fmt"

	"FXStrength/internal/model"
)

// BarReader reads archived bars by pair code ("EURUSD") and resolution ("1d").
type BarReader interface {
	GetBars(ctx context.Context, pair, resolution string, limit int) ([]model.OHLCV, error)
}

// ForexDataFetcher implements Fetcher on top of the forex_data archive.
type ForexDataFetcher struct {
	Store      BarReader
	Resolution string
}

// NewForexDataFetcher creates a fetcher reading daily bars from the archive.
func NewForexDataFetcher(store BarReader) *ForexDataFetcher {
	return &ForexDataFetcher{Store: store, Resolution: "1d"}
}

func (f *ForexDataFetcher) Name() string { return "postgres" }

func (f *ForexDataFetcher) FetchDailyBars(ctx context.Context, pair string, days int) ([]model.OHLCV, error) {
	bars, err := f.Store.GetBars(ctx, PairCode(pair), f.Resolution, days)
	if err != nil {
		return nil, fmt.Errorf("read archive %s: %w", pair, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("archive %s: %w", pair, ErrNoData)
	}
	return bars, nil
}
