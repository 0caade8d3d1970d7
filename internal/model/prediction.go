package model

// Prediction target names. Artifact files and response keys use the same
// strings.
const (
	TargetProposedRP   = "proposed_rp"
	TargetLastBidPrice = "last_bid_price"
)

// Quantile names scored per target.
const (
	QuantileQ5  = "q5"
	QuantileQ50 = "q50"
	QuantileQ90 = "q90"
)

// Targets lists the target variables predicted for cylinder and valve lots.
var Targets = []string{TargetProposedRP, TargetLastBidPrice}

// Quantiles lists the quantile models scored per target, ascending.
var Quantiles = []string{QuantileQ5, QuantileQ50, QuantileQ90}

// TargetQuantiles maps quantile name (plus "confidence_interval") to its
// predicted value. The brass point-estimate path carries only q50 and a
// zero confidence interval.
type TargetQuantiles map[string]float64

// PredictionResult is the outcome of one inference run, echoing the
// request fields alongside the per-target predictions.
type PredictionResult struct {
	ProductGroup string                     `json:"product_group"`
	Quantity     float64                    `json:"quantity"`
	Date         string                     `json:"date"`
	Predictions  map[string]TargetQuantiles `json:"predictions"`
}
