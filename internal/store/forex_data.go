package store

import (
	"context"
	"fmt"
	"time"

	"FXStrength/internal/collector"
	"FXStrength/internal/model"

	"github.com/jackc/pgx/v5"
)

// upsertChunk bounds the number of rows sent in one batch.
const upsertChunk = 500

// ForexDataStore reads and writes OHLCV bars in the forex_data table.
type ForexDataStore struct {
	pool *Pool
}

// NewForexDataStore creates a new ForexDataStore.
func NewForexDataStore(pool *Pool) *ForexDataStore {
	return &ForexDataStore{pool: pool}
}

// Compile-time interface checks.
var (
	_ collector.BarReader = (*ForexDataStore)(nil)
	_ collector.BarWriter = (*ForexDataStore)(nil)
)

// UpsertBars inserts bars for one pair code and resolution, replacing rows
// that already exist for the same timestamp. It returns the rows written.
func (s *ForexDataStore) UpsertBars(ctx context.Context, pair, resolution string, bars []model.OHLCV) (int, error) {
	query := `
		INSERT INTO forex_data (pair, timestamp, open, high, low, close, volume, resolution)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (pair, timestamp, resolution) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume
	`

	written := 0
	for start := 0; start < len(bars); start += upsertChunk {
		end := min(start+upsertChunk, len(bars))
		batch := &pgx.Batch{}
		for _, b := range bars[start:end] {
			batch.Queue(query, pair, b.Time.UTC(), b.Open, b.High, b.Low, b.Close, b.Volume, resolution)
		}
		if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
			return written, fmt.Errorf("upsert %s bars: %w", pair, err)
		}
		written += end - start
	}
	return written, nil
}

// GetBars returns the latest limit bars for a pair code and resolution, oldest first.
func (s *ForexDataStore) GetBars(ctx context.Context, pair, resolution string, limit int) ([]model.OHLCV, error) {
	query := `
		SELECT timestamp, open, high, low, close, volume
		FROM forex_data
		WHERE pair = $1 AND resolution = $2
		ORDER BY timestamp DESC
		LIMIT $3
	`
	rows, err := s.pool.Query(ctx, query, pair, resolution, limit)
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var bars []model.OHLCV
	for rows.Next() {
		var (
			ts                   time.Time
			open, high, low, vol *float64
			close                float64
		)
		if err := rows.Scan(&ts, &open, &high, &low, &close, &vol); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		bars = append(bars, model.OHLCV{
			Time:   ts.UTC(),
			Open:   deref(open),
			High:   deref(high),
			Low:    deref(low),
			Close:  close,
			Volume: deref(vol),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bars: %w", err)
	}

	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
	return bars, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
