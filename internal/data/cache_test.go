package data

import (
	"testing"

	"auction-pricer/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestWindowCache(t *testing.T) {
	c := NewWindowCache()
	start, end := day("2025-08-13"), day("2025-09-12")

	_, ok := c.Get(start, end)
	assert.False(t, ok)

	first := model.MarketData{Copper: model.NewMetalPriceSeries(MetalCopper, model.SourceLive, 0, nil)}
	c.Set(start, end, first)

	got, ok := c.Get(start, end)
	assert.True(t, ok)
	assert.Equal(t, model.SourceLive, got.Copper.Source)
	assert.Equal(t, 1, c.Len())

	// First writer wins.
	c.Set(start, end, model.MarketData{Copper: model.NewMetalPriceSeries(MetalCopper, model.SourceFallback, 0, nil)})
	got, _ = c.Get(start, end)
	assert.Equal(t, model.SourceLive, got.Copper.Source)

	// Windows differing in either bound are distinct keys.
	c.Set(start, day("2025-09-13"), first)
	c.Set(day("2025-08-14"), end, first)
	assert.Equal(t, 3, c.Len())
}
