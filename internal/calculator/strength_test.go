package calculator

import (
	"math"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"FXStrength/internal/model"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func series(symbol string, prices ...float64) model.PairSeries {
	pts := make([]model.PricePoint, len(prices))
	for i, p := range prices {
		pts[i] = model.PricePoint{Date: day0.AddDate(0, 0, i), Price: p}
	}
	return model.PairSeries{Symbol: symbol, Points: pts}
}

func randomBasket(seed int64, days int) ([]string, []model.PairSeries) {
	rng := rand.New(rand.NewSource(seed))
	universe := []string{"USD", "EUR", "GBP", "JPY"}
	symbols := []string{"EUR/USD", "GBP/USD", "USD/JPY", "EUR/GBP", "EUR/JPY"}
	pairs := make([]model.PairSeries, len(symbols))
	for k, s := range symbols {
		prices := make([]float64, days)
		p := 0.5 + rng.Float64()*1.5
		for i := range prices {
			p *= 1 + (rng.Float64()-0.5)*0.01
			prices[i] = p
		}
		pairs[k] = series(s, prices...)
	}
	return universe, pairs
}

func find(t *testing.T, points []model.UnitStrengthPoint, date time.Time, unit string) model.UnitStrengthPoint {
	t.Helper()
	for _, p := range points {
		if p.Unit == unit && p.Date.Equal(date) {
			return p
		}
	}
	t.Fatalf("no point for %s on %s", unit, date.Format("2006-01-02"))
	return model.UnitStrengthPoint{}
}

func TestComputeStrength_SinglePairSingleDay(t *testing.T) {
	universe := []string{"USD", "EUR"}
	pairs := []model.PairSeries{series("EUR/USD", 1.00, 1.10)}

	points, err := ComputeStrength(universe, pairs, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}

	eur := find(t, points, day0.AddDate(0, 0, 1), "EUR")
	usd := find(t, points, day0.AddDate(0, 0, 1), "USD")
	if math.Abs(eur.RawScore-10) > 1e-9 {
		t.Errorf("EUR raw = %f, want 10", eur.RawScore)
	}
	if math.Abs(usd.RawScore+10) > 1e-9 {
		t.Errorf("USD raw = %f, want -10", usd.RawScore)
	}
	if eur.NormalizedScore != 100 {
		t.Errorf("EUR normalized = %f, want 100", eur.NormalizedScore)
	}
	if usd.NormalizedScore != 0 {
		t.Errorf("USD normalized = %f, want 0", usd.NormalizedScore)
	}
}

func TestComputeStrength_QuoteUnitAveragesAcrossPairs(t *testing.T) {
	universe := []string{"USD", "EUR", "GBP"}
	pairs := []model.PairSeries{
		series("EUR/USD", 1.00, 1.10),
		series("GBP/USD", 1.00, 1.20),
	}

	points, err := ComputeStrength(universe, pairs, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	usd := find(t, points, day0.AddDate(0, 0, 1), "USD")
	if math.Abs(usd.RawScore+15) > 1e-9 {
		t.Errorf("USD raw = %f, want mean -15 (not sum -30)", usd.RawScore)
	}
	if eur := find(t, points, day0.AddDate(0, 0, 1), "EUR"); math.Abs(eur.RawScore-10) > 1e-9 {
		t.Errorf("EUR raw = %f, want 10", eur.RawScore)
	}
	if gbp := find(t, points, day0.AddDate(0, 0, 1), "GBP"); gbp.NormalizedScore != 100 {
		t.Errorf("GBP normalized = %f, want 100", gbp.NormalizedScore)
	}
}

func TestComputeStrength_FirstDateWindow(t *testing.T) {
	universe := []string{"USD", "EUR", "GBP", "JPY"}
	_, pairs := randomBasket(7, 10)

	points, err := ComputeStrength(universe, pairs, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != len(universe) {
		t.Fatalf("expected %d points, got %d", len(universe), len(points))
	}
	for _, p := range points {
		if p.RawScore != 0 {
			t.Errorf("%s raw = %f, want 0", p.Unit, p.RawScore)
		}
		if p.NormalizedScore != 50 {
			t.Errorf("%s normalized = %f, want 50", p.Unit, p.NormalizedScore)
		}
	}
}

func TestComputeStrength_UnreachableUnit(t *testing.T) {
	universe := []string{"USD", "EUR", "CHF"}
	pairs := []model.PairSeries{series("EUR/USD", 1.00, 1.05, 1.02, 1.04)}

	points, err := ComputeStrength(universe, pairs, 0, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range points {
		if p.Unit != "CHF" {
			continue
		}
		if p.RawScore != 0 {
			t.Errorf("CHF raw on %s = %f, want 0", p.Date.Format("2006-01-02"), p.RawScore)
		}
		if p.NormalizedScore < 0 || p.NormalizedScore > 100 || math.IsNaN(p.NormalizedScore) {
			t.Errorf("CHF normalized = %f out of bounds", p.NormalizedScore)
		}
	}
}

func TestComputeStrength_Deterministic(t *testing.T) {
	universe, pairs := randomBasket(42, 60)
	a, err := ComputeStrength(universe, pairs, 5, 59)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := ComputeStrength(universe, pairs, 5, 59)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical inputs produced different outputs")
	}
}

func TestComputeStrength_Bounds(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		universe, pairs := randomBasket(seed, 40)
		points, err := ComputeStrength(universe, pairs, 0, 39)
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}
		for _, p := range points {
			if p.NormalizedScore < 0 || p.NormalizedScore > 100 {
				t.Fatalf("seed %d: %s on %s normalized %f out of [0,100]",
					seed, p.Unit, p.Date.Format("2006-01-02"), p.NormalizedScore)
			}
		}
	}
}

func TestComputeStrength_ZeroSumAttribution(t *testing.T) {
	universe, pairs := randomBasket(99, 30)

	degree := map[string]float64{}
	for _, p := range pairs {
		base, quote, err := ParsePair(p.Symbol)
		if err != nil {
			t.Fatalf("parse %s: %v", p.Symbol, err)
		}
		degree[base]++
		degree[quote]++
	}

	points, err := ComputeStrength(universe, pairs, 1, 29)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	frames := Frames(points)
	for _, f := range frames {
		total := 0.0
		for unit, raw := range f.Raw {
			total += raw * degree[unit]
		}
		if math.Abs(total) > 1e-9 {
			t.Errorf("%s: weighted raw sum = %g, want 0", f.Date.Format("2006-01-02"), total)
		}
	}
}

func TestComputeStrength_OutputOrder(t *testing.T) {
	universe, pairs := randomBasket(3, 5)
	points, err := ComputeStrength(universe, pairs, 1, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 4*len(universe) {
		t.Fatalf("expected %d points, got %d", 4*len(universe), len(points))
	}
	for i, p := range points {
		wantDate := day0.AddDate(0, 0, 1+i/len(universe))
		if !p.Date.Equal(wantDate) || p.Unit != universe[i%len(universe)] {
			t.Fatalf("point %d = (%s, %s), want (%s, %s)", i,
				p.Date.Format("2006-01-02"), p.Unit, wantDate.Format("2006-01-02"), universe[i%len(universe)])
		}
	}
}

func TestComputeStrength_NonPositivePrice(t *testing.T) {
	tests := []struct {
		name  string
		pair  model.PairSeries
		start int
		end   int
	}{
		{"zero previous price", series("EUR/USD", 0, 1.10), 1, 1},
		{"negative current price", series("EUR/USD", 1.00, -1.10), 1, 1},
		{"NaN inside window", series("EUR/USD", 1.00, 1.01, math.NaN(), 1.02), 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, err := ComputeStrength([]string{"USD", "EUR"}, []model.PairSeries{tt.pair}, tt.start, tt.end)
			if err == nil {
				t.Fatal("expected error")
			}
			if !IsComputationError(err) {
				t.Fatalf("expected ComputationError, got %T: %v", err, err)
			}
			if points != nil {
				t.Errorf("expected no partial output, got %d points", len(points))
			}
		})
	}
}

func TestComputeStrength_OverflowingReturn(t *testing.T) {
	pairs := []model.PairSeries{series("EUR/USD", 1e-300, 1e300)}
	points, err := ComputeStrength([]string{"USD", "EUR"}, pairs, 1, 1)
	if !IsComputationError(err) {
		t.Fatalf("expected ComputationError, got %v", err)
	}
	if points != nil {
		t.Errorf("expected no partial output, got %d points", len(points))
	}
}

func TestComputeStrength_ExtremeButFiniteReturn(t *testing.T) {
	pairs := []model.PairSeries{series("EUR/USD", 1e-100, 1e100)}
	points, err := ComputeStrength([]string{"USD", "EUR"}, pairs, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range points {
		if math.IsNaN(p.NormalizedScore) || p.NormalizedScore < 0 || p.NormalizedScore > 100 {
			t.Errorf("%s normalized score %v outside [0, 100]", p.Unit, p.NormalizedScore)
		}
	}
}

func TestComputeStrength_BadPriceOutsideWindowIgnored(t *testing.T) {
	pairs := []model.PairSeries{series("EUR/USD", 0, 1.00, 1.01, 1.02)}
	if _, err := ComputeStrength([]string{"USD", "EUR"}, pairs, 2, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestComputeStrength_ConfigurationErrors(t *testing.T) {
	good := series("EUR/USD", 1.00, 1.01, 1.02)
	shifted := series("GBP/USD", 1.00, 1.01, 1.02)
	shifted.Points[1].Date = shifted.Points[1].Date.Add(time.Hour)
	repeated := series("EUR/USD", 1.00, 1.01, 1.02)
	repeated.Points[2].Date = repeated.Points[1].Date
	descending := series("EUR/USD", 1.00, 1.01, 1.02)
	descending.Points[0].Date, descending.Points[2].Date = descending.Points[2].Date, descending.Points[0].Date

	tests := []struct {
		name     string
		universe []string
		pairs    []model.PairSeries
		start    int
		end      int
	}{
		{"no pairs", []string{"USD", "EUR"}, nil, 0, 0},
		{"empty universe", nil, []model.PairSeries{good}, 0, 0},
		{"duplicate unit", []string{"USD", "EUR", "USD"}, []model.PairSeries{good}, 0, 0},
		{"malformed symbol", []string{"USD", "EUR"}, []model.PairSeries{series("EURUSD", 1, 1)}, 0, 0},
		{"self pair", []string{"USD"}, []model.PairSeries{series("USD/USD", 1, 1)}, 0, 0},
		{"unit outside universe", []string{"USD", "EUR"}, []model.PairSeries{series("GBP/USD", 1, 1)}, 0, 0},
		{"unequal lengths", []string{"USD", "EUR", "GBP"}, []model.PairSeries{good, series("GBP/USD", 1, 1)}, 0, 0},
		{"misaligned dates", []string{"USD", "EUR", "GBP"}, []model.PairSeries{good, shifted}, 0, 0},
		{"repeated date", []string{"USD", "EUR"}, []model.PairSeries{repeated}, 0, 2},
		{"descending dates", []string{"USD", "EUR"}, []model.PairSeries{descending}, 0, 2},
		{"empty series", []string{"USD", "EUR"}, []model.PairSeries{{Symbol: "EUR/USD"}}, 0, 0},
		{"negative start", []string{"USD", "EUR"}, []model.PairSeries{good}, -1, 1},
		{"end before start", []string{"USD", "EUR"}, []model.PairSeries{good}, 2, 1},
		{"end past last date", []string{"USD", "EUR"}, []model.PairSeries{good}, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeStrength(tt.universe, tt.pairs, tt.start, tt.end)
			if err == nil {
				t.Fatal("expected error")
			}
			if !IsConfigurationError(err) {
				t.Fatalf("expected ConfigurationError, got %T: %v", err, err)
			}
		})
	}
}
