package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PricePoint is the close of one instrument on one calendar date.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// PairSeries is the aligned, ascending close series of one BASE/QUOTE pair.
type PairSeries struct {
	Symbol string       `json:"symbol"`
	Points []PricePoint `json:"points"`
}

// Basket is a set of pair series sharing one date axis, as produced by the collector.
type Basket struct {
	Universe  []string
	Dates     []time.Time
	Pairs     []PairSeries
	Source    string
	FetchedAt time.Time
}

// Len returns the number of aligned dates.
func (b *Basket) Len() int { return len(b.Dates) }

// PairSymbols lists the pair symbols in basket order.
func (b *Basket) PairSymbols() []string {
	out := make([]string, len(b.Pairs))
	for i, p := range b.Pairs {
		out[i] = p.Symbol
	}
	return out
}
