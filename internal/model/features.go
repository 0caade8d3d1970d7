package model

// FeatureVector is the flat feature-name -> value record consumed by the
// trained regressors. Builders may emit extra keys; inference keeps only
// the schema the resolved models require.
type FeatureVector map[string]float64

// Feature names for the copper/zinc inputs of the brass index regressor.
const (
	FeatureCopperPrice = "copper_price"
	FeatureZincPrice   = "zinc_price"
)

// baseFeatures is the schema shared by the cylinder and valve models.
var baseFeatures = []string{
	"year", "month", "quantity", "ewm_proposed_rp", "ewm_last_bid_price",
	"day_of_week", "day_of_month", "week_of_year", "days_since_last_auction",
	"auction_frequency_7d", "price_momentum_7d", "price_momentum_30d",
	"quantity_trend_7d", "quantity_trend_30d", "last_auction_price",
	"last_auction_quantity", "price_volatility_7d", "price_volatility_30d",
	"rolling_mean_7d_proposed_rp", "rolling_mean_30d_proposed_rp",
	"rolling_mean_7d_last_bid_price", "rolling_mean_30d_last_bid_price",
	"rolling_std_7d_proposed_rp", "rolling_std_30d_proposed_rp",
	"rolling_std_7d_last_bid_price", "rolling_std_30d_last_bid_price",
	"price_change_1d", "price_change_7d", "price_change_30d",
	"quantity_change_1d", "quantity_change_7d", "quantity_change_30d",
}

// brassFeatures extends the valve schema with brass-index inputs.
var brassFeatures = []string{
	"brass_index_poly", "brass_index_momentum_7d",
	"brass_index_momentum_30d", "brass_index_volatility_7d",
}

// brassIndexInputs is the schema of the standalone brass index regressor.
var brassIndexInputs = []string{FeatureCopperPrice, FeatureZincPrice}

// RequiredFeatures returns the exact feature schema the group's trained
// models were fitted on. The returned slice is a copy.
func RequiredFeatures(group ProductGroup) []string {
	switch group {
	case GroupValve:
		out := make([]string, 0, len(baseFeatures)+len(brassFeatures))
		out = append(out, baseFeatures...)
		return append(out, brassFeatures...)
	case GroupBrass:
		return append([]string(nil), brassIndexInputs...)
	default:
		return append([]string(nil), baseFeatures...)
	}
}

// MissingFeatures lists the required keys absent from fv, in schema order.
func (fv FeatureVector) MissingFeatures(group ProductGroup) []string {
	var missing []string
	for _, name := range RequiredFeatures(group) {
		if _, ok := fv[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Restrict returns a copy of fv holding only the group's required keys.
// Unknown keys are dropped; callers must have checked MissingFeatures.
func (fv FeatureVector) Restrict(group ProductGroup) FeatureVector {
	required := RequiredFeatures(group)
	out := make(FeatureVector, len(required))
	for _, name := range required {
		if v, ok := fv[name]; ok {
			out[name] = v
		}
	}
	return out
}
