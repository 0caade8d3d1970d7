package features

import (
	"fmt"
	"time"

	"auction-pricer/internal/model"
)

// addBrassFeatures fills in the valve-only brass index features. The index
// at an instant is the trained regressor applied to the latest copper and
// zinc prices at or before that instant; the polynomial feature is the
// squared index. Momentum and volatility operate on a per-day index series
// across the trailing window.
func (b *Builder) addBrassFeatures(fv model.FeatureVector, anchor time.Time, market model.MarketData) error {
	if b.BrassIndex == nil {
		return fmt.Errorf("brass index model is required for valve features")
	}

	index, err := b.brassIndexAt(anchor, market)
	if err != nil {
		return err
	}
	// brass_index itself is not part of the valve schema; inference drops
	// it, but keeping it makes the vector self-describing in logs.
	fv["brass_index"] = index
	fv["brass_index_poly"] = index * index

	series, err := b.dailyIndexSeries(anchor, 30, market)
	if err != nil {
		return err
	}
	// The 30-day series holds one value per day ending at the anchor, so
	// the trailing 8 entries cover the 7-day window.
	last8 := series[len(series)-8:]

	fv["brass_index_momentum_7d"] = meanStepChange(last8)
	fv["brass_index_momentum_30d"] = meanStepChange(series)
	fv["brass_index_volatility_7d"] = sampleStd(last8)
	fv["brass_index_volatility_30d"] = sampleStd(series)
	return nil
}

func (b *Builder) brassIndexAt(d time.Time, market model.MarketData) (float64, error) {
	index, err := b.BrassIndex.Predict(map[string]float64{
		model.FeatureCopperPrice: market.Copper.LatestAt(d),
		model.FeatureZincPrice:   market.Zinc.LatestAt(d),
	})
	if err != nil {
		return 0, fmt.Errorf("brass index prediction: %w", err)
	}
	return index, nil
}

// dailyIndexSeries evaluates the brass index once per calendar day over
// [anchor - days, anchor], oldest first.
func (b *Builder) dailyIndexSeries(anchor time.Time, days int, market model.MarketData) ([]float64, error) {
	out := make([]float64, 0, days+1)
	for offset := -days; offset <= 0; offset++ {
		index, err := b.brassIndexAt(anchor.AddDate(0, 0, offset), market)
		if err != nil {
			return nil, err
		}
		out = append(out, index)
	}
	return out, nil
}
