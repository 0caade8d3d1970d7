package model

import (
	"sort"
	"time"
)

// Source of a metal price series.
const (
	SourceLive     = "live"
	SourceDemo     = "demo"
	SourceFallback = "fallback"
)

// PricePoint is one dated spot price.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// MetalPriceSeries is an ordered-by-date series of spot prices for one
// metal. Default is the configured constant used when no point exists at
// or before a requested date.
type MetalPriceSeries struct {
	Metal   string
	Source  string
	Default float64
	points  []PricePoint
}

// NewMetalPriceSeries builds a series, sorting points by date ascending.
func NewMetalPriceSeries(metal, source string, defaultPrice float64, points []PricePoint) MetalPriceSeries {
	sorted := make([]PricePoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return MetalPriceSeries{
		Metal:   metal,
		Source:  source,
		Default: defaultPrice,
		points:  sorted,
	}
}

// LatestAt returns the most recent price at or before d, or the default
// when no such point exists.
func (s MetalPriceSeries) LatestAt(d time.Time) float64 {
	// First index strictly after d; the answer sits just before it.
	idx := sort.Search(len(s.points), func(i int) bool {
		return s.points[i].Date.After(d)
	})
	if idx == 0 {
		return s.Default
	}
	return s.points[idx-1].Price
}

// Len reports the number of points in the series.
func (s MetalPriceSeries) Len() int {
	return len(s.points)
}

// Points returns a copy of the ordered points.
func (s MetalPriceSeries) Points() []PricePoint {
	out := make([]PricePoint, len(s.points))
	copy(out, s.points)
	return out
}

// MarketData bundles the two metal series a prediction needs.
type MarketData struct {
	Copper MetalPriceSeries
	Zinc   MetalPriceSeries
}
