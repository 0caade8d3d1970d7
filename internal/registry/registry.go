package registry

import (
	"fmt"
	"sync"

	"auction-pricer/internal/model"

	"github.com/rs/zerolog/log"
)

// brassArtifactName is the single point-estimate model for the brass index.
const brassArtifactName = "brass_index_model"

// Bundle holds every trained regressor for one product group:
// target -> quantile -> regressor. The brass bundle carries a single
// proposed_rp/q50 entry.
type Bundle struct {
	Group   model.ProductGroup
	Targets map[string]map[string]model.Regressor
}

// PointEstimate returns the brass bundle's single regressor.
func (b *Bundle) PointEstimate() model.Regressor {
	return b.Targets[model.TargetProposedRP][model.QuantileQ50]
}

// Registry resolves product groups to their model bundles, loading each
// group's artifacts at most once per process. It is constructed once at
// startup and shared by reference; the cache is safe for concurrent use
// and an entry is only published fully populated.
type Registry struct {
	loader Loader

	mu      sync.Mutex
	bundles map[string]*Bundle
}

// New creates a registry over the given artifact loader.
func New(loader Loader) *Registry {
	return &Registry{
		loader:  loader,
		bundles: make(map[string]*Bundle),
	}
}

// Resolve normalizes the free-text group name (case, singular/plural) and
// returns the cached bundle, loading it on first use. A missing artifact
// is fatal; nothing is substituted.
func (r *Registry) Resolve(group string) (*Bundle, error) {
	g, err := model.ParseGroup(group)
	if err != nil {
		return nil, err
	}
	key := g.ModelPrefix()

	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bundles[key]; ok {
		return b, nil
	}

	b, err := r.loadBundle(g)
	if err != nil {
		return nil, err
	}
	r.bundles[key] = b
	return b, nil
}

func (r *Registry) loadBundle(g model.ProductGroup) (*Bundle, error) {
	b := &Bundle{Group: g, Targets: make(map[string]map[string]model.Regressor)}

	if g == model.GroupBrass {
		reg, err := r.loader.Load(brassArtifactName)
		if err != nil {
			return nil, err
		}
		b.Targets[model.TargetProposedRP] = map[string]model.Regressor{model.QuantileQ50: reg}
		log.Info().Str("group", string(g)).Msg("loaded brass index model")
		return b, nil
	}

	prefix := g.ModelPrefix()
	for _, target := range model.Targets {
		b.Targets[target] = make(map[string]model.Regressor, len(model.Quantiles))
		for _, q := range model.Quantiles {
			name := fmt.Sprintf("%s_%s_%s", prefix, target, q)
			reg, err := r.loader.Load(name)
			if err != nil {
				return nil, err
			}
			b.Targets[target][q] = reg
		}
	}
	log.Info().Str("group", string(g)).Int("models", len(model.Targets)*len(model.Quantiles)).
		Msg("loaded quantile models")
	return b, nil
}
