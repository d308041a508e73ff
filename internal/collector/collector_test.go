package collector

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"FXStrength/internal/calculator"
	"FXStrength/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeArchive struct {
	mu   sync.Mutex
	rows map[string]int
}

func (f *fakeArchive) UpsertBars(_ context.Context, pair, resolution string, bars []model.OHLCV) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows == nil {
		f.rows = map[string]int{}
	}
	f.rows[pair+":"+resolution] += len(bars)
	return len(bars), nil
}

func TestCollect_MockBasketFeedsCalculator(t *testing.T) {
	universe := []string{"USD", "EUR", "GBP", "JPY"}
	pairs := []string{"EUR/USD", "GBP/USD", "USD/JPY", "EUR/JPY"}
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	c := NewCollector(&MockFetcher{Seed: 1, End: end}, universe, pairs, 366)
	basket, err := c.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "mock", basket.Source)
	assert.Equal(t, 366, basket.Len())
	assert.Equal(t, pairs, basket.PairSymbols())
	assert.True(t, basket.Dates[basket.Len()-1].Equal(end))

	points, err := calculator.ComputeStrength(basket.Universe, basket.Pairs, 0, basket.Len()-1)
	require.NoError(t, err)
	assert.Len(t, points, 366*len(universe))
}

func TestCollect_SkipsFailingPairs(t *testing.T) {
	f := &MockFetcher{
		Seed:  2,
		End:   time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		Fails: map[string]error{"GBP/USD": errors.New("upstream down")},
	}
	c := NewCollector(f, []string{"USD", "EUR", "GBP"}, []string{"EUR/USD", "GBP/USD"}, 30)
	basket, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"EUR/USD"}, basket.PairSymbols())
}

func TestCollect_AllPairsFail(t *testing.T) {
	f := &MockFetcher{Fails: map[string]error{"EUR/USD": errors.New("x")}}
	c := NewCollector(f, []string{"USD", "EUR"}, []string{"EUR/USD"}, 30)
	_, err := c.Collect(context.Background())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestCollect_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewCollector(&MockFetcher{}, []string{"USD", "EUR"}, []string{"EUR/USD"}, 30)
	_, err := c.Collect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollect_ArchivesFetchedBars(t *testing.T) {
	archive := &fakeArchive{}
	c := NewCollector(&MockFetcher{Seed: 3}, []string{"USD", "EUR", "JPY"}, []string{"EUR/USD", "USD/JPY"}, 10)
	c.Archive = archive
	_, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, archive.rows["EURUSD:1d"])
	assert.Equal(t, 10, archive.rows["USDJPY:1d"])
}

func TestMockFetcher_DeterministicAndPriced(t *testing.T) {
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	m := &MockFetcher{Seed: 9, End: end}

	a, err := m.FetchDailyBars(context.Background(), "GBP/JPY", 50)
	require.NoError(t, err)
	b, err := m.FetchDailyBars(context.Background(), "GBP/JPY", 50)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	for i := 1; i < len(a); i++ {
		move := a[i].Close/a[i-1].Close - 1
		assert.LessOrEqual(t, move, 0.005)
		assert.GreaterOrEqual(t, move, -0.005)
	}
	assert.Greater(t, a[0].Open, 79.0, "JPY crosses start in the 80-140 band")

	eur, err := m.FetchDailyBars(context.Background(), "EUR/USD", 1)
	require.NoError(t, err)
	assert.Less(t, eur[0].Open, 2.01)
}

func TestPairCode(t *testing.T) {
	assert.Equal(t, "EURUSD", PairCode("EUR/USD"))
	assert.False(t, strings.Contains(PairCode("USD/JPY"), "/"))
}
