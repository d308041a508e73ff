package collector

import (
	"fmt"
	"log"
	"sort"
	"time"

	"FXStrength/internal/model"
)

// day truncates t to its UTC calendar date.
func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Align places the closes of every pair on one shared daily axis.
//
// Bars are keyed by UTC calendar date; when a pair has several bars on one
// date the latest wins. Non-positive closes are discarded. The axis is the
// union of all dates, starting on the first date by which every pair has been
// quoted, and each pair's gaps are forward-filled with its previous close.
// Pairs without a single usable bar are dropped from the basket.
func Align(universe, pairs []string, bars map[string][]model.OHLCV) (*model.Basket, error) {
	closes := make(map[string]map[time.Time]float64, len(pairs))
	kept := make([]string, 0, len(pairs))
	allDays := make(map[time.Time]struct{})
	var firstCommon time.Time

	for _, p := range pairs {
		src := append([]model.OHLCV(nil), bars[p]...)
		sort.SliceStable(src, func(i, j int) bool { return src[i].Time.Before(src[j].Time) })

		byDay := make(map[time.Time]float64, len(src))
		var first time.Time
		for _, b := range src {
			if !(b.Close > 0) {
				continue
			}
			d := day(b.Time)
			byDay[d] = b.Close
			if first.IsZero() || d.Before(first) {
				first = d
			}
		}
		if len(byDay) == 0 {
			log.Printf("[WARN] pair %s has no usable closes, dropping it", p)
			continue
		}
		for d := range byDay {
			allDays[d] = struct{}{}
		}
		if first.After(firstCommon) {
			firstCommon = first
		}
		closes[p] = byDay
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("align: %w", ErrNoData)
	}

	days := make([]time.Time, 0, len(allDays))
	for d := range allDays {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var axis []time.Time
	for _, d := range days {
		if !d.Before(firstCommon) {
			axis = append(axis, d)
		}
	}

	basket := &model.Basket{
		Universe: append([]string(nil), universe...),
		Dates:    axis,
		Pairs:    make([]model.PairSeries, 0, len(kept)),
	}
	for _, p := range kept {
		byDay := closes[p]
		points := make([]model.PricePoint, 0, len(axis))
		var last float64
		for _, d := range days {
			if c, ok := byDay[d]; ok {
				last = c
			}
			if d.Before(firstCommon) {
				continue
			}
			points = append(points, model.PricePoint{Date: d, Price: last})
		}
		basket.Pairs = append(basket.Pairs, model.PairSeries{Symbol: p, Points: points})
	}
	return basket, nil
}
