package strength

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"FXStrength/internal/calculator"
	"FXStrength/internal/model"
	"FXStrength/internal/observability"
)

// ErrNoBasket is returned until the first basket has been loaded.
var ErrNoBasket = errors.New("no market data loaded yet")

// Request selects the period and the units to chart.
type Request struct {
	Period model.Period
	Units  []string
}

// Service turns the current basket into strength reports.
type Service struct {
	mu           sync.RWMutex
	basket       *model.Basket
	cache        *Cache
	metrics      *observability.Metrics
	displayUnits []string
}

// NewService creates a Service. cache and metrics may be nil.
// displayUnits are charted when a request names no units.
func NewService(cache *Cache, metrics *observability.Metrics, displayUnits []string) *Service {
	return &Service{
		cache:        cache,
		metrics:      metrics,
		displayUnits: displayUnits,
	}
}

// SetBasket replaces the basket that reports are computed from.
func (s *Service) SetBasket(b *model.Basket) {
	s.mu.Lock()
	s.basket = b
	s.mu.Unlock()
}

// Basket returns the current basket, or nil before the first refresh.
func (s *Service) Basket() *model.Basket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.basket
}

// Compute runs calculator.ComputeStrength through the memo cache.
func (s *Service) Compute(universe []string, pairs []model.PairSeries, windowStart, windowEnd int) ([]model.UnitStrengthPoint, error) {
	var key uint64
	if s.cache != nil {
		key = Key(universe, pairs, windowStart, windowEnd)
		if points, ok := s.cache.Get(key); ok {
			s.metrics.RecordCacheLookup(true)
			return points, nil
		}
		s.metrics.RecordCacheLookup(false)
	}

	started := time.Now()
	points, err := calculator.ComputeStrength(universe, pairs, windowStart, windowEnd)
	s.metrics.RecordComputation(time.Since(started), err)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(key, points)
	}
	return points, nil
}

// Report computes the strength report for one period over the current basket.
// The ranking always covers the whole universe; the series is limited to the
// selected units and thinned for long periods.
func (s *Service) Report(req Request) (*model.StrengthReport, error) {
	b := s.Basket()
	if b == nil {
		return nil, ErrNoBasket
	}

	period := req.Period
	if period == "" {
		period = model.DefaultPeriod
	}
	start, end, err := calculator.WindowForPeriod(b.Len(), period)
	if err != nil {
		return nil, err
	}
	units, err := s.selectUnits(b.Universe, req.Units)
	if err != nil {
		return nil, err
	}

	points, err := s.Compute(b.Universe, b.Pairs, start, end)
	if err != nil {
		return nil, err
	}
	frames := calculator.Frames(points)

	return &model.StrengthReport{
		Period:      period,
		WindowStart: start,
		WindowEnd:   end,
		From:        b.Dates[start],
		To:          b.Dates[end],
		Units:       units,
		Series:      calculator.Downsample(FilterUnits(frames, units), calculator.DownsampleStep(period)),
		Ranking:     Rank(b.Universe, frames[len(frames)-1]),
		GeneratedAt: time.Now(),
	}, nil
}

// selectUnits validates a unit selection. An empty selection falls back to
// the display units, and failing those to the whole universe, so at least one
// unit is always charted.
func (s *Service) selectUnits(universe, requested []string) ([]string, error) {
	known := make(map[string]bool, len(universe))
	for _, u := range universe {
		known[u] = true
	}

	seen := make(map[string]bool, len(requested))
	var units []string
	for _, u := range requested {
		if !known[u] {
			return nil, &calculator.ConfigurationError{Reason: fmt.Sprintf("unit %q is not in the universe", u)}
		}
		if !seen[u] {
			seen[u] = true
			units = append(units, u)
		}
	}
	if len(units) > 0 {
		return units, nil
	}

	for _, u := range s.displayUnits {
		if known[u] && !seen[u] {
			seen[u] = true
			units = append(units, u)
		}
	}
	if len(units) == 0 {
		units = append(units, universe...)
	}
	return units, nil
}
