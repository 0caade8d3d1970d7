package model

// Regressor is an opaque trained model predicting one scalar from a named
// feature row. Artifact loading and the training ecosystem behind an
// implementation are deliberately outside this contract.
type Regressor interface {
	Predict(features map[string]float64) (float64, error)
}
