package data

import (
	"path/filepath"
	"time"

	"auction-pricer/internal/config"
	"auction-pricer/internal/metrics"
	"auction-pricer/internal/model"

	"github.com/rs/zerolog/log"
)

// Metal names used for series labeling.
const (
	MetalCopper = "copper"
	MetalZinc   = "zinc"
)

// Demo workbook file names, matching the exported data drops.
const (
	demoCopperFile = "marketdata_copper.xlsx"
	demoZincFile   = "marketdata_zinc.xlsx"
)

// Feed supplies copper and zinc price series for a request date. Feed
// failures are recoverable by contract: every implementation resolves
// trouble to constant fallback series instead of returning an error, so
// a market data problem can never fail a prediction.
type Feed interface {
	Load(asOf time.Time) model.MarketData
}

// NewFeed selects the feed for the configured data source. Unknown modes
// degrade to constant fallback prices.
func NewFeed(cfg *config.Config, cache *WindowCache) Feed {
	switch cfg.DataSource {
	case config.SourceLive:
		return &LiveFeed{
			Client: NewMetalsClient(cfg.MarketAPIURL, cfg.MarketAPIKey, cfg.BaseCurrency,
				cfg.CopperSymbol, cfg.ZincSymbol),
			Cache:          cache,
			LookbackDays:   cfg.MarketLookbackDays,
			CopperSymbol:   cfg.CopperSymbol,
			ZincSymbol:     cfg.ZincSymbol,
			FallbackCopper: cfg.FallbackCopperPrice,
			FallbackZinc:   cfg.FallbackZincPrice,
		}
	case config.SourceDemo:
		return &DemoFeed{
			CopperPath:     filepath.Join(cfg.DataDir, demoCopperFile),
			ZincPath:       filepath.Join(cfg.DataDir, demoZincFile),
			FallbackCopper: cfg.FallbackCopperPrice,
			FallbackZinc:   cfg.FallbackZincPrice,
			LookbackDays:   cfg.MarketLookbackDays,
		}
	default:
		log.Warn().Str("data_source", cfg.DataSource).
			Msg("unknown market data source, using fallback prices")
		return &FallbackFeed{
			Copper:       cfg.FallbackCopperPrice,
			Zinc:         cfg.FallbackZincPrice,
			LookbackDays: cfg.MarketLookbackDays,
		}
	}
}

// FallbackFeed repeats the configured default price once per day across
// the lookback window.
type FallbackFeed struct {
	Copper       float64
	Zinc         float64
	LookbackDays int
}

func (f *FallbackFeed) Load(asOf time.Time) model.MarketData {
	metrics.MarketFallbacks.Inc()
	return fallbackMarketData(asOf.AddDate(0, 0, -f.LookbackDays), asOf, f.Copper, f.Zinc)
}

// DemoFeed reads the static per-metal workbooks. No date filtering: demo
// tables are served whole. A broken workbook degrades that metal to its
// fallback constant.
type DemoFeed struct {
	CopperPath     string
	ZincPath       string
	FallbackCopper float64
	FallbackZinc   float64
	LookbackDays   int
}

func (f *DemoFeed) Load(asOf time.Time) model.MarketData {
	start := asOf.AddDate(0, 0, -f.LookbackDays)
	return model.MarketData{
		Copper: f.loadMetal(f.CopperPath, MetalCopper, f.FallbackCopper, start, asOf),
		Zinc:   f.loadMetal(f.ZincPath, MetalZinc, f.FallbackZinc, start, asOf),
	}
}

func (f *DemoFeed) loadMetal(path, metal string, fallback float64, start, end time.Time) model.MetalPriceSeries {
	points, err := readMetalWorkbook(path)
	if err != nil {
		log.Warn().Err(err).Str("metal", metal).
			Msg("demo market data unavailable, using fallback prices")
		metrics.MarketFallbacks.Inc()
		return constantSeries(metal, fallback, start, end)
	}
	return model.NewMetalPriceSeries(metal, model.SourceDemo, fallback, points)
}

// LiveFeed fetches a price window from the external API, caching
// successful windows and substituting fallback series when the fetch
// fails after its bounded retries or returns nothing usable.
type LiveFeed struct {
	Client         *MetalsClient
	Cache          *WindowCache
	LookbackDays   int
	CopperSymbol   string
	ZincSymbol     string
	FallbackCopper float64
	FallbackZinc   float64
}

func (f *LiveFeed) Load(asOf time.Time) model.MarketData {
	start := asOf.AddDate(0, 0, -f.LookbackDays)

	if md, ok := f.Cache.Get(start, asOf); ok {
		metrics.MarketCacheHits.Inc()
		return md
	}

	resp, err := f.Client.FetchTimeframe(start, asOf)
	if err != nil {
		log.Warn().Err(err).
			Str("start", start.Format(DateLayout)).
			Str("end", asOf.Format(DateLayout)).
			Msg("live metal price fetch failed, using fallback prices")
		metrics.MarketFallbacks.Inc()
		return fallbackMarketData(start, asOf, f.FallbackCopper, f.FallbackZinc)
	}
	if len(resp.Rates) == 0 {
		log.Warn().Msg("live metal price fetch returned no rates, using fallback prices")
		metrics.MarketFallbacks.Inc()
		return fallbackMarketData(start, asOf, f.FallbackCopper, f.FallbackZinc)
	}

	md := model.MarketData{
		Copper: f.liveSeries(resp, f.CopperSymbol, MetalCopper, f.FallbackCopper, start, asOf),
		Zinc:   f.liveSeries(resp, f.ZincSymbol, MetalZinc, f.FallbackZinc, start, asOf),
	}
	f.Cache.Set(start, asOf, md)
	return md
}

func (f *LiveFeed) liveSeries(resp *TimeframeResponse, symbol, metal string, fallback float64, start, end time.Time) model.MetalPriceSeries {
	points := resp.PointsFor(symbol)
	if len(points) == 0 {
		log.Warn().Str("metal", metal).Str("symbol", symbol).
			Msg("no live prices for metal, using fallback prices")
		metrics.MarketFallbacks.Inc()
		return constantSeries(metal, fallback, start, end)
	}
	return model.NewMetalPriceSeries(metal, model.SourceLive, fallback, points)
}

// constantSeries repeats price once per day across [start, end].
func constantSeries(metal string, price float64, start, end time.Time) model.MetalPriceSeries {
	var points []model.PricePoint
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		points = append(points, model.PricePoint{Date: d, Price: price})
	}
	return model.NewMetalPriceSeries(metal, model.SourceFallback, price, points)
}

func fallbackMarketData(start, end time.Time, copper, zinc float64) model.MarketData {
	return model.MarketData{
		Copper: constantSeries(MetalCopper, copper, start, end),
		Zinc:   constantSeries(MetalZinc, zinc, start, end),
	}
}
