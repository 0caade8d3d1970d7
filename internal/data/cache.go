package data

import (
	"sync"
	"time"

	"auction-pricer/internal/model"
)

// WindowCache holds successfully fetched live price windows in process
// memory, keyed by the (start, end) date pair, so repeated requests for
// the same window hit the network once. Constructed at startup and passed
// by reference; entries live for the process lifetime and are only ever
// published fully built.
type WindowCache struct {
	mu    sync.RWMutex
	store map[string]model.MarketData
}

// NewWindowCache creates an empty cache.
func NewWindowCache() *WindowCache {
	return &WindowCache{store: make(map[string]model.MarketData)}
}

// Get returns the cached market data for the window, if present.
func (c *WindowCache) Get(start, end time.Time) (model.MarketData, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	md, ok := c.store[windowKey(start, end)]
	return md, ok
}

// Set stores market data for the window. First writer wins.
func (c *WindowCache) Set(start, end time.Time, md model.MarketData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := windowKey(start, end)
	if _, exists := c.store[key]; exists {
		return
	}
	c.store[key] = md
}

// Len reports the number of cached windows.
func (c *WindowCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

func windowKey(start, end time.Time) string {
	return start.Format(DateLayout) + "|" + end.Format(DateLayout)
}
