package inference

import (
	"fmt"
	"sort"
	"strings"

	"auction-pricer/internal/model"
	"auction-pricer/internal/registry"
)

// MissingFeaturesError names the schema keys the feature vector lacked.
type MissingFeaturesError struct {
	Group   model.ProductGroup
	Missing []string
}

func (e *MissingFeaturesError) Error() string {
	return fmt.Sprintf("missing required features for %s: %s",
		string(e.Group), strings.Join(e.Missing, ", "))
}

// Engine scores a feature vector against the resolved quantile models.
type Engine struct {
	registry *registry.Registry
}

// New creates an engine over the given model registry.
func New(reg *registry.Registry) *Engine {
	return &Engine{registry: reg}
}

// Infer validates the feature vector against the group's schema, scores
// every required quantile model, and repairs quantile ordering.
//
// The three quantile outputs per target are sorted ascending and assigned
// positionally to q5/q50/q90. Independently trained regressors can cross;
// the sort guarantees q5 <= q50 <= q90 but nothing more. The confidence
// interval is q90 - q50 after sorting. Brass yields a single q50 point
// estimate with a zero interval.
func (e *Engine) Infer(group model.ProductGroup, quantity float64, date string, fv model.FeatureVector) (model.PredictionResult, error) {
	result := model.PredictionResult{
		ProductGroup: string(group),
		Quantity:     quantity,
		Date:         date,
		Predictions:  make(map[string]model.TargetQuantiles),
	}

	bundle, err := e.registry.Resolve(string(group))
	if err != nil {
		return model.PredictionResult{}, err
	}

	if missing := fv.MissingFeatures(group); len(missing) > 0 {
		return model.PredictionResult{}, &MissingFeaturesError{Group: group, Missing: missing}
	}
	row := fv.Restrict(group)

	if group == model.GroupBrass {
		point, err := bundle.PointEstimate().Predict(row)
		if err != nil {
			return model.PredictionResult{}, fmt.Errorf("scoring brass index: %w", err)
		}
		result.Predictions[model.TargetProposedRP] = model.TargetQuantiles{
			model.QuantileQ50:     point,
			"confidence_interval": 0,
		}
		return result, nil
	}

	for _, target := range model.Targets {
		values := make([]float64, 0, len(model.Quantiles))
		for _, q := range model.Quantiles {
			v, err := bundle.Targets[target][q].Predict(row)
			if err != nil {
				return model.PredictionResult{}, fmt.Errorf("scoring %s/%s: %w", target, q, err)
			}
			values = append(values, v)
		}
		sort.Float64s(values)
		result.Predictions[target] = model.TargetQuantiles{
			model.QuantileQ5:      values[0],
			model.QuantileQ50:     values[1],
			model.QuantileQ90:     values[2],
			"confidence_interval": values[2] - values[1],
		}
	}
	return result, nil
}
