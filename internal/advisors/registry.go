package advisors

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/verity/internal/common"
	"github.com/ternarybob/verity/internal/signals"
)

// Registry is an immutable, ordered set of personas. Order is the weight
// table order used by the policy engine.
type Registry struct {
	personas []Persona
	byKey    map[string]int
}

// NewRegistry validates personas and builds a registry. Keys must be unique
// and every allowed evidence key must exist in the signal catalog.
func NewRegistry(personas ...Persona) (*Registry, error) {
	validate := validator.New()
	r := &Registry{
		personas: make([]Persona, 0, len(personas)),
		byKey:    make(map[string]int, len(personas)),
	}

	for _, p := range personas {
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("invalid persona %q: %w", p.Key, err)
		}
		if _, dup := r.byKey[p.Key]; dup {
			return nil, fmt.Errorf("duplicate persona key: %s", p.Key)
		}
		for _, key := range p.AllowedEvidenceKeys {
			if !signals.IsCatalogKey(key) {
				return nil, fmt.Errorf("persona %s allows unknown evidence key: %s", p.Key, key)
			}
		}
		r.byKey[p.Key] = len(r.personas)
		r.personas = append(r.personas, clonePersona(p))
	}

	return r, nil
}

// DefaultRegistry returns the built-in warren, bill and robin personas
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultPersonas()...)
	if err != nil {
		panic(fmt.Sprintf("default personas are invalid: %v", err))
	}
	return r
}

// FromConfig overlays configured advisors onto the defaults. An entry whose
// key matches a default replaces only the fields it sets; any other entry
// adds a new persona after the defaults.
func FromConfig(configs []common.AdvisorConfig) (*Registry, error) {
	personas := DefaultPersonas()
	index := make(map[string]int, len(personas))
	for i, p := range personas {
		index[p.Key] = i
	}

	for _, cfg := range configs {
		if i, ok := index[cfg.Key]; ok {
			personas[i] = applyConfig(personas[i], cfg)
			continue
		}
		p := applyConfig(Persona{
			Key:       cfg.Key,
			Title:     cfg.Key,
			MinClaims: DefaultMinClaims,
			MaxClaims: DefaultMaxClaims,
		}, cfg)
		index[p.Key] = len(personas)
		personas = append(personas, p)
	}

	return NewRegistry(personas...)
}

func applyConfig(p Persona, cfg common.AdvisorConfig) Persona {
	if cfg.Title != "" {
		p.Title = cfg.Title
	}
	if cfg.BaseWeight != nil {
		p.BaseWeight = *cfg.BaseWeight
	}
	if len(cfg.AllowedEvidenceKeys) > 0 {
		p.AllowedEvidenceKeys = append([]string(nil), cfg.AllowedEvidenceKeys...)
	}
	if cfg.MinClaims != nil {
		p.MinClaims = *cfg.MinClaims
	}
	if cfg.MaxClaims != nil {
		p.MaxClaims = *cfg.MaxClaims
	}
	if cfg.FocusHint != "" {
		p.FocusHint = cfg.FocusHint
	}
	if cfg.RequiresAny != nil {
		p.RequiresAny = append([]string(nil), cfg.RequiresAny...)
	}
	if cfg.InsufficientMessage != "" {
		p.InsufficientMessage = cfg.InsufficientMessage
	}
	if cfg.MissingDataNote != "" {
		p.MissingDataNote = cfg.MissingDataNote
	}
	return p
}

// Get returns the persona for key
func (r *Registry) Get(key string) (Persona, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return Persona{}, false
	}
	return clonePersona(r.personas[i]), true
}

// Personas returns every persona in weight-table order
func (r *Registry) Personas() []Persona {
	out := make([]Persona, len(r.personas))
	for i, p := range r.personas {
		out[i] = clonePersona(p)
	}
	return out
}

// Keys returns persona keys in weight-table order
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.personas))
	for i, p := range r.personas {
		keys[i] = p.Key
	}
	return keys
}

// AllowedEvidenceKeys returns the evidence keys key may cite. Unknown
// advisors may cite the full catalog.
func (r *Registry) AllowedEvidenceKeys(key string) []string {
	if i, ok := r.byKey[key]; ok {
		return append([]string(nil), r.personas[i].AllowedEvidenceKeys...)
	}
	return signals.Catalog()
}

// MinClaims returns the minimum claim count expected from key, 0 if unknown
func (r *Registry) MinClaims(key string) int {
	if i, ok := r.byKey[key]; ok {
		return r.personas[i].MinClaims
	}
	return 0
}

func clonePersona(p Persona) Persona {
	p.AllowedEvidenceKeys = append([]string(nil), p.AllowedEvidenceKeys...)
	p.RequiresAny = append([]string(nil), p.RequiresAny...)
	return p
}
