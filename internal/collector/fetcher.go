package collector

import (
	"context"
	"strings"

	"FXStrength/internal/model"
)

// Fetcher defines the interface for fetching daily pair quotes.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, pair string, days int) ([]model.OHLCV, error)
	Name() string
}

// PairCode strips the separator from a "BASE/QUOTE" symbol ("EUR/USD" -> "EURUSD").
func PairCode(pair string) string {
	return strings.ReplaceAll(pair, "/", "")
}
