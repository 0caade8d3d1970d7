package features

import (
	"fmt"
	"time"

	"auction-pricer/internal/model"

	"github.com/rs/zerolog/log"
)

// NoHistoricalDataError is returned when the group filter leaves no
// auction records to derive features from.
type NoHistoricalDataError struct {
	Group model.ProductGroup
}

func (e *NoHistoricalDataError) Error() string {
	return fmt.Sprintf("no historical data for product group %q", string(e.Group))
}

// Builder turns a prediction request plus its data snapshots into the
// fixed-schema feature vector the trained models expect.
type Builder struct {
	// BrassIndex is the trained blend of copper and zinc spot prices.
	// Required for valve requests, unused otherwise.
	BrassIndex model.Regressor
}

// Build derives the feature vector for one request. The same inputs always
// produce the same vector. Records after asOf are assumed to have been
// excluded by the store's lookback filter.
func (b *Builder) Build(group model.ProductGroup, quantity float64, asOf time.Time, records []model.AuctionRecord, market model.MarketData) (model.FeatureVector, error) {
	filtered := filterByGroup(records, group)
	if len(filtered) == 0 {
		return nil, &NoHistoricalDataError{Group: group}
	}
	filtered = model.SortRecordsByDate(filtered)

	fv := model.FeatureVector{
		"year":         float64(asOf.Year()),
		"month":        float64(asOf.Month()),
		"quantity":     quantity,
		"day_of_week":  float64(mondayIndexed(asOf.Weekday())),
		"day_of_month": float64(asOf.Day()),
	}
	_, week := asOf.ISOWeek()
	fv["week_of_year"] = float64(week)

	// Window and recency math anchors on the newest record when the request
	// date runs past the data, instead of extrapolating into a gap.
	anchor := asOf
	latest := filtered[len(filtered)-1]
	if anchor.After(latest.AuctionDate) {
		log.Warn().
			Time("as_of", asOf).
			Time("max_data_date", latest.AuctionDate).
			Msg("request date exceeds newest auction record, clamping window anchor")
		anchor = latest.AuctionDate
	}

	fv["days_since_last_auction"] = float64(daysBetween(latest.AuctionDate, anchor))
	fv["last_auction_price"] = latest.ProposedRP
	fv["last_auction_quantity"] = latest.Quantity

	prices := column(filtered, func(r model.AuctionRecord) float64 { return r.ProposedRP })
	bids := column(filtered, func(r model.AuctionRecord) float64 { return r.LastBidPrice })
	fv["ewm_proposed_rp"] = ewm(prices, 7)
	fv["ewm_last_bid_price"] = ewm(bids, 7)

	for _, window := range []int{7, 30} {
		inWindow := recordsInWindow(filtered, anchor, window)
		wp := column(inWindow, func(r model.AuctionRecord) float64 { return r.ProposedRP })
		wb := column(inWindow, func(r model.AuctionRecord) float64 { return r.LastBidPrice })
		wq := column(inWindow, func(r model.AuctionRecord) float64 { return r.Quantity })

		if window == 7 {
			fv["auction_frequency_7d"] = float64(len(inWindow))
		}
		fv[fmt.Sprintf("price_momentum_%dd", window)] = meanStepChange(wp)
		fv[fmt.Sprintf("quantity_trend_%dd", window)] = meanStepChange(wq)
		fv[fmt.Sprintf("price_volatility_%dd", window)] = sampleStd(wp)
		fv[fmt.Sprintf("rolling_mean_%dd_proposed_rp", window)] = mean(wp)
		fv[fmt.Sprintf("rolling_mean_%dd_last_bid_price", window)] = mean(wb)
		fv[fmt.Sprintf("rolling_std_%dd_proposed_rp", window)] = sampleStd(wp)
		fv[fmt.Sprintf("rolling_std_%dd_last_bid_price", window)] = sampleStd(wb)
		fv[fmt.Sprintf("price_change_%dd", window)] = delta(wp)
		fv[fmt.Sprintf("quantity_change_%dd", window)] = delta(wq)
	}

	oneDay := recordsInWindow(filtered, anchor, 1)
	fv["price_change_1d"] = delta(column(oneDay, func(r model.AuctionRecord) float64 { return r.ProposedRP }))
	fv["quantity_change_1d"] = delta(column(oneDay, func(r model.AuctionRecord) float64 { return r.Quantity }))

	if group == model.GroupValve {
		if err := b.addBrassFeatures(fv, anchor, market); err != nil {
			return nil, err
		}
	}

	return fv, nil
}

func filterByGroup(records []model.AuctionRecord, group model.ProductGroup) []model.AuctionRecord {
	var out []model.AuctionRecord
	for _, r := range records {
		if model.ClassifyDescription(r.ProductDescription) == group {
			out = append(out, r)
		}
	}
	return out
}

// recordsInWindow returns records dated within [anchor - days, anchor],
// inclusive on both ends. The input must already be date-sorted.
func recordsInWindow(records []model.AuctionRecord, anchor time.Time, days int) []model.AuctionRecord {
	start := anchor.AddDate(0, 0, -days)
	var out []model.AuctionRecord
	for _, r := range records {
		if r.AuctionDate.Before(start) || r.AuctionDate.After(anchor) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func column(records []model.AuctionRecord, pick func(model.AuctionRecord) float64) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = pick(r)
	}
	return out
}

// mondayIndexed converts Go's Sunday=0 weekday to the Monday=0 convention
// the models were trained on.
func mondayIndexed(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// daysBetween counts whole calendar days from a to b; never negative for
// a <= b. Both inputs are date-precision values.
func daysBetween(a, b time.Time) int {
	d := int(b.Sub(a).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
