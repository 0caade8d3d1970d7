package inference

import (
	"testing"

	"auction-pricer/internal/model"
	"auction-pricer/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// valueLoader serves a fixed prediction per artifact name.
type valueLoader map[string]float64

func (l valueLoader) Load(name string) (model.Regressor, error) {
	v, ok := l[name]
	if !ok {
		return nil, &registry.ModelNotFoundError{Name: name, Path: name + ".json"}
	}
	return constReg(v), nil
}

type constReg float64

func (c constReg) Predict(map[string]float64) (float64, error) { return float64(c), nil }

func fullVector(group model.ProductGroup) model.FeatureVector {
	fv := model.FeatureVector{}
	for _, name := range model.RequiredFeatures(group) {
		fv[name] = 0
	}
	return fv
}

func TestInferSortsCrossedQuantiles(t *testing.T) {
	// The q5 model predicts above the q90 model; the sort repairs ordering.
	loader := valueLoader{
		"cyl_proposed_rp_q5":     250,
		"cyl_proposed_rp_q50":    100,
		"cyl_proposed_rp_q90":    180,
		"cyl_last_bid_price_q5":  90,
		"cyl_last_bid_price_q50": 95,
		"cyl_last_bid_price_q90": 120,
	}
	engine := New(registry.New(loader))

	result, err := engine.Infer(model.GroupCylinder, 25, "2025-09-12", fullVector(model.GroupCylinder))
	require.NoError(t, err)

	assert.Equal(t, "cylinder", result.ProductGroup)
	assert.Equal(t, 25.0, result.Quantity)
	assert.Equal(t, "2025-09-12", result.Date)

	rp := result.Predictions[model.TargetProposedRP]
	assert.Equal(t, 100.0, rp[model.QuantileQ5])
	assert.Equal(t, 180.0, rp[model.QuantileQ50])
	assert.Equal(t, 250.0, rp[model.QuantileQ90])
	assert.Equal(t, 70.0, rp["confidence_interval"])

	bid := result.Predictions[model.TargetLastBidPrice]
	assert.Equal(t, 90.0, bid[model.QuantileQ5])
	assert.Equal(t, 25.0, bid["confidence_interval"])

	for _, target := range model.Targets {
		p := result.Predictions[target]
		assert.LessOrEqual(t, p[model.QuantileQ5], p[model.QuantileQ50])
		assert.LessOrEqual(t, p[model.QuantileQ50], p[model.QuantileQ90])
	}
}

func TestInferMissingFeatures(t *testing.T) {
	loader := valueLoader{
		"cyl_proposed_rp_q5":     1,
		"cyl_proposed_rp_q50":    2,
		"cyl_proposed_rp_q90":    3,
		"cyl_last_bid_price_q5":  1,
		"cyl_last_bid_price_q50": 2,
		"cyl_last_bid_price_q90": 3,
	}
	engine := New(registry.New(loader))

	fv := fullVector(model.GroupCylinder)
	delete(fv, "ewm_proposed_rp")
	delete(fv, "price_momentum_7d")

	_, err := engine.Infer(model.GroupCylinder, 25, "2025-09-12", fv)
	var missErr *MissingFeaturesError
	require.ErrorAs(t, err, &missErr)
	assert.Equal(t, model.GroupCylinder, missErr.Group)
	assert.ElementsMatch(t, []string{"ewm_proposed_rp", "price_momentum_7d"}, missErr.Missing)
}

func TestInferDropsExtraFeatures(t *testing.T) {
	loader := valueLoader{
		"cyl_proposed_rp_q5":     1,
		"cyl_proposed_rp_q50":    2,
		"cyl_proposed_rp_q90":    3,
		"cyl_last_bid_price_q5":  1,
		"cyl_last_bid_price_q50": 2,
		"cyl_last_bid_price_q90": 3,
	}
	engine := New(registry.New(loader))

	fv := fullVector(model.GroupCylinder)
	fv["brass_index"] = 1234 // not part of the cylinder schema

	_, err := engine.Infer(model.GroupCylinder, 25, "2025-09-12", fv)
	assert.NoError(t, err)
}

func TestInferBrassPointEstimate(t *testing.T) {
	engine := New(registry.New(valueLoader{"brass_index_model": 42}))

	fv := model.FeatureVector{
		model.FeatureCopperPrice: 800,
		model.FeatureZincPrice:   300,
	}
	result, err := engine.Infer(model.GroupBrass, 0, "2025-09-12", fv)
	require.NoError(t, err)

	require.Len(t, result.Predictions, 1)
	point := result.Predictions[model.TargetProposedRP]
	assert.Equal(t, 42.0, point[model.QuantileQ50])
	assert.Equal(t, 0.0, point["confidence_interval"])
	assert.NotContains(t, point, model.QuantileQ5)
}

func TestInferModelNotFound(t *testing.T) {
	engine := New(registry.New(valueLoader{}))

	_, err := engine.Infer(model.GroupCylinder, 1, "2025-09-12", fullVector(model.GroupCylinder))
	var nf *registry.ModelNotFoundError
	assert.ErrorAs(t, err, &nf)
}
