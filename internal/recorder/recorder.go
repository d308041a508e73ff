package recorder

import (
	"time"

	"FXStrength/internal/model"
)

// RankingSnapshot is one refresh run's ranking for a period.
type RankingSnapshot struct {
	RunID   string
	Period  model.Period
	Source  string
	From    time.Time
	AsOf    time.Time
	Ranking []model.RankEntry
}

// FetchEvent summarises one data collection attempt.
type FetchEvent struct {
	RunID          string
	Source         string
	PairsRequested int
	PairsFetched   int
	Dates          int
	Error          string
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordRanking(snap *RankingSnapshot) error
	RecordFetch(evt *FetchEvent) error
	Close() error
}
