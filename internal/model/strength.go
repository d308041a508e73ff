package model

import "time"

// Period is a named lookback window.
type Period string

const (
	Period1D Period = "1d"
	Period1W Period = "1w"
	Period1M Period = "1m"
	Period3M Period = "3m"
	Period6M Period = "6m"
	Period1Y Period = "1y"
)

// DefaultPeriod is used when a request names no period.
const DefaultPeriod = Period1M

// Periods lists every supported period, shortest first.
var Periods = []Period{Period1D, Period1W, Period1M, Period3M, Period6M, Period1Y}

// Valid reports whether p is one of the supported periods.
func (p Period) Valid() bool {
	for _, v := range Periods {
		if v == p {
			return true
		}
	}
	return false
}

// UnitStrengthPoint is the strength of one currency on one date.
type UnitStrengthPoint struct {
	Date            time.Time `json:"date"`
	Unit            string    `json:"unit"`
	RawScore        float64   `json:"rawScore"`
	NormalizedScore float64   `json:"normalizedScore"`
}

// StrengthFrame groups every unit's scores for a single date.
type StrengthFrame struct {
	Date       time.Time          `json:"date"`
	Normalized map[string]float64 `json:"normalized"`
	Raw        map[string]float64 `json:"raw"`
}

// RankEntry is one row of a strongest-to-weakest ranking.
type RankEntry struct {
	Rank            int     `json:"rank"`
	Unit            string  `json:"unit"`
	NormalizedScore float64 `json:"normalizedScore"`
	RawScore        float64 `json:"rawScore"`
}

// StrengthReport is the presentation-ready result for one period.
type StrengthReport struct {
	Period      Period          `json:"period"`
	WindowStart int             `json:"windowStart"`
	WindowEnd   int             `json:"windowEnd"`
	From        time.Time       `json:"from"`
	To          time.Time       `json:"to"`
	Units       []string        `json:"units"`
	Series      []StrengthFrame `json:"series"`
	Ranking     []RankEntry     `json:"ranking"`
	GeneratedAt time.Time       `json:"generatedAt"`
}
