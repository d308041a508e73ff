package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"FXStrength/internal/model"
	"FXStrength/internal/observability"

	"golang.org/x/sync/errgroup"
)

// ErrNoData is returned when a source has nothing usable for a request.
var ErrNoData = errors.New("no data")

// Collector fetches every configured pair and aligns them into a basket.
type Collector struct {
	Fetcher     Fetcher
	Universe    []string
	Pairs       []string
	Days        int
	Concurrency int
	Metrics     *observability.Metrics
	Archive     BarWriter // optional; receives every fetched series as delivered
}

// BarWriter persists fetched bars by pair code and resolution.
type BarWriter interface {
	UpsertBars(ctx context.Context, pair, resolution string, bars []model.OHLCV) (int, error)
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, universe, pairs []string, days int) *Collector {
	return &Collector{
		Fetcher:     fetcher,
		Universe:    universe,
		Pairs:       pairs,
		Days:        days,
		Concurrency: 4,
	}
}

// Collect fetches daily bars for all pairs. A pair that fails is logged and
// skipped; the call fails only when no pair could be fetched.
func (c *Collector) Collect(ctx context.Context) (*model.Basket, error) {
	limit := c.Concurrency
	if limit <= 0 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var mu sync.Mutex
	bars := make(map[string][]model.OHLCV, len(c.Pairs))

	for _, pair := range c.Pairs {
		g.Go(func() error {
			b, err := c.Fetcher.FetchDailyBars(gctx, pair, c.Days)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Printf("[WARN] fetch %s from %s failed: %v, skipping pair", pair, c.Fetcher.Name(), err)
				c.Metrics.RecordFetchError(c.Fetcher.Name())
				return nil
			}
			c.archive(gctx, pair, b)
			mu.Lock()
			bars[pair] = b
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("collect from %s: %w", c.Fetcher.Name(), ErrNoData)
	}

	basket, err := Align(c.Universe, c.Pairs, bars)
	if err != nil {
		return nil, err
	}
	basket.Source = c.Fetcher.Name()
	basket.FetchedAt = time.Now()
	log.Printf("[INFO] collected %d/%d pairs over %d dates from %s",
		len(basket.Pairs), len(c.Pairs), basket.Len(), basket.Source)
	return basket, nil
}

func (c *Collector) archive(ctx context.Context, pair string, bars []model.OHLCV) {
	if c.Archive == nil || len(bars) == 0 {
		return
	}
	n, err := c.Archive.UpsertBars(ctx, PairCode(pair), "1d", bars)
	if err != nil {
		log.Printf("[WARN] archive %s: %v", pair, err)
		return
	}
	c.Metrics.RecordArchived(n)
}
