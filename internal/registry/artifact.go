package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"auction-pricer/internal/model"
)

// Loader resolves an artifact name to a usable regressor. The default
// implementation reads JSON coefficient files; tests substitute spies.
type Loader interface {
	Load(name string) (model.Regressor, error)
}

// ModelNotFoundError is fatal: a missing artifact means the prediction
// cannot be fabricated, so there is no fallback.
type ModelNotFoundError struct {
	Name string
	Path string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("model artifact %q not found at %s", e.Name, e.Path)
}

// JSONLoader reads linear-regressor artifacts ({name}.json) from a
// directory. An artifact carries an intercept plus named coefficients:
//
//	{"type": "linear", "intercept": 120.5,
//	 "coefficients": {"rolling_mean_30d_proposed_rp": 0.8, "quantity": 3.1}}
type JSONLoader struct {
	Dir string
}

type artifact struct {
	Type         string             `json:"type"`
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
}

func (l *JSONLoader) Load(name string) (model.Regressor, error) {
	path := filepath.Join(l.Dir, name+".json")
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ModelNotFoundError{Name: name, Path: path}
		}
		return nil, fmt.Errorf("reading model artifact %s: %w", path, err)
	}
	var a artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("parsing model artifact %s: %w", path, err)
	}
	if a.Type != "" && a.Type != "linear" {
		return nil, fmt.Errorf("model artifact %s: unsupported type %q", path, a.Type)
	}
	if len(a.Coefficients) == 0 {
		return nil, fmt.Errorf("model artifact %s has no coefficients", path)
	}
	return &linearRegressor{name: name, intercept: a.Intercept, coefficients: a.Coefficients}, nil
}

// linearRegressor scores intercept + sum(coef * feature).
type linearRegressor struct {
	name         string
	intercept    float64
	coefficients map[string]float64
}

func (r *linearRegressor) Predict(features map[string]float64) (float64, error) {
	out := r.intercept
	for name, coef := range r.coefficients {
		v, ok := features[name]
		if !ok {
			return 0, fmt.Errorf("model %s: feature %q missing from input row", r.name, name)
		}
		out += coef * v
	}
	return out, nil
}
