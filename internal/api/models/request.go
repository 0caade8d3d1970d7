package models

import (
	"fmt"
	"time"

	"auction-pricer/internal/data"
	"auction-pricer/internal/model"
)

// PredictRequest is the body of POST /api/v1/predict. Location is echoed
// back for presentation and never reaches the core.
type PredictRequest struct {
	ProductGroup string  `json:"product_group" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"required,gt=0"`
	Date         string  `json:"date" binding:"required"`
	Location     string  `json:"location" binding:"required"`
}

// Resolve validates the request semantics beyond binding: the group must
// normalize to cylinder or valve (singular/plural, any case), and the date
// must be YYYY-MM-DD. Failures here are client errors; the core never runs.
func (r *PredictRequest) Resolve() (model.ProductGroup, time.Time, error) {
	group, err := model.ParseGroup(r.ProductGroup)
	if err != nil || (group != model.GroupCylinder && group != model.GroupValve) {
		return model.GroupUnknown, time.Time{}, fmt.Errorf(
			"product_group must be 'cylinder' or 'valve' (singular/plural variations accepted)")
	}
	asOf, err := time.Parse(data.DateLayout, r.Date)
	if err != nil {
		return model.GroupUnknown, time.Time{}, fmt.Errorf("date must be in YYYY-MM-DD format")
	}
	return group, asOf, nil
}
