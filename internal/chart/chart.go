// Package chart windows the monthly price-trend series and renders it as a
// composed line+bar chart (average price on the left axis, deal volume on the
// right).
package chart

import (
	"sudogwon/web/internal/format"
	"sudogwon/web/internal/models"
)

// DefaultWindow is the trailing window applied when the page carries no
// explicit selection.
const DefaultWindow = 36

// WindowOption is one selectable trailing window. Months == 0 means the full
// series.
type WindowOption struct {
	Months int
	Label  string
}

// WindowOptions are the selectable windows, in display order.
var WindowOptions = []WindowOption{
	{12, "1년"},
	{24, "2년"},
	{36, "3년"},
	{0, "전체"},
}

// ValidWindow reports whether months is one of the selectable windows.
func ValidWindow(months int) bool {
	for _, opt := range WindowOptions {
		if opt.Months == months {
			return true
		}
	}
	return false
}

// Window returns the trailing months-sized slice of the series, or the whole
// series for months == 0. The input is already in chronological order.
func Window(points []models.HistoryPoint, months int) []models.HistoryPoint {
	if months <= 0 || months >= len(points) {
		return points
	}
	return points[len(points)-months:]
}

// PriceDomain computes the left-axis bounds over the windowed slice only:
// [min×0.9, max×1.1] across the non-zero monthly averages. ok is false when
// the window holds no usable amounts.
func PriceDomain(points []models.HistoryPoint) (min, max float64, ok bool) {
	for _, p := range points {
		if p.AvgAmount <= 0 {
			continue
		}
		if !ok || p.AvgAmount < min {
			min = p.AvgAmount
		}
		if p.AvgAmount > max {
			max = p.AvgAmount
		}
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return min * 0.9, max * 1.1, true
}

// Summary aggregates the windowed slice: highest and lowest monthly average
// and the total deal count. It reads the same windowed data as the axis
// domain, not the separately fetched area stats.
type Summary struct {
	MaxAmount  float64
	MinAmount  float64
	TotalCount int
}

// Summarize derives the summary row under the chart.
func Summarize(points []models.HistoryPoint) (Summary, bool) {
	var s Summary
	seen := false
	for _, p := range points {
		s.TotalCount += p.Count
		if p.AvgAmount <= 0 {
			continue
		}
		if !seen || p.AvgAmount < s.MinAmount {
			s.MinAmount = p.AvgAmount
		}
		if p.AvgAmount > s.MaxAmount {
			s.MaxAmount = p.AvgAmount
		}
		seen = true
	}
	return s, seen
}

// MaxLabel renders the windowed high for the summary row.
func (s Summary) MaxLabel() string { return format.ShortPrice(s.MaxAmount) }

// MinLabel renders the windowed low for the summary row.
func (s Summary) MinLabel() string { return format.ShortPrice(s.MinAmount) }
