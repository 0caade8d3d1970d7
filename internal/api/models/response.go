package models

import "auction-pricer/internal/model"

// PredictResponse echoes the request fields alongside the per-target
// quantile predictions. The brass point-estimate path omits q5/q90.
type PredictResponse struct {
	ProductGroup string                           `json:"product_group"`
	Quantity     float64                          `json:"quantity"`
	Date         string                           `json:"date"`
	Location     string                           `json:"location"`
	Predictions  map[string]model.TargetQuantiles `json:"predictions"`
}

// ProductGroupInfo describes one recognized product group for the
// listing endpoint.
type ProductGroupInfo struct {
	Name     string   `json:"name"`
	SKUs     []string `json:"skus"`
	Keywords []string `json:"keywords"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine code plus a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
