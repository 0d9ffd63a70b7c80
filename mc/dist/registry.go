// Package dist maps distribution identifiers to sampling callables.
//
// A distribution is registered once as a Builder plus the names of the
// parameters it takes. Binding a registered distribution to concrete
// parameter values and a draw count happens before any sampling, so a
// simulation never discovers a bad parameter mid-run.
package dist

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Named error conditions. All registry and binding failures wrap one of
// these, so callers can classify with errors.Is.
var (
	// ErrDuplicateDistribution is returned when an id is registered twice.
	ErrDuplicateDistribution = errors.New("duplicate distribution id")

	// ErrUnknownDistribution is returned when resolving an unregistered id.
	ErrUnknownDistribution = errors.New("unknown distribution id")

	// ErrParameterMismatch is returned when supplied parameter names do not
	// exactly match the registered schema (missing or unexpected names).
	ErrParameterMismatch = errors.New("parameter mismatch")

	// ErrInvalidParameter is returned when a parameter value is outside the
	// distribution's domain, or a bound draw count is unusable.
	ErrInvalidParameter = errors.New("invalid parameter value")
)

// Params holds named distribution parameter values.
type Params map[string]float64

// Sampler draws one complete sample of the size it was built for.
// Samplers hold no mutable state: all randomness comes from rng, so a single
// Sampler may be shared by concurrent trials as long as each trial supplies
// its own rng.
type Sampler func(rng *rand.Rand) []float64

// Builder validates parameter values, binds them together with the draw
// count n, and returns a Sampler that draws exactly n values per call.
// Value errors wrap ErrInvalidParameter.
type Builder func(params Params, n int) (Sampler, error)

// Spec describes one registered distribution.
// Immutable once registered: Resolve returns a copy with a cloned
// ParamNames slice.
type Spec struct {
	ID         string
	Build      Builder
	ParamNames []string
}

// Bind checks params against the schema and builds a Sampler drawing n
// values. Name-set errors wrap ErrParameterMismatch, value errors wrap
// ErrInvalidParameter.
func (s Spec) Bind(params Params, n int) (Sampler, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: draw count must be positive, got %d", ErrInvalidParameter, n)
	}
	if err := matchParams(s.ParamNames, params); err != nil {
		return nil, fmt.Errorf("distribution %q: %w", s.ID, err)
	}
	sampler, err := s.Build(params, n)
	if err != nil {
		return nil, fmt.Errorf("distribution %q: %w", s.ID, err)
	}
	return sampler, nil
}

// matchParams verifies that params carries exactly the declared names and
// that every value is finite.
func matchParams(declared []string, params Params) error {
	for _, name := range declared {
		val, ok := params[name]
		if !ok {
			return fmt.Errorf("%w: missing parameter %q", ErrParameterMismatch, name)
		}
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("%w: parameter %q must be a finite number, got %f", ErrInvalidParameter, name, val)
		}
	}
	if len(params) > len(declared) {
		known := make(map[string]bool, len(declared))
		for _, name := range declared {
			known[name] = true
		}
		extras := make([]string, 0, len(params))
		for name := range params {
			if !known[name] {
				extras = append(extras, name)
			}
		}
		sort.Strings(extras)
		return fmt.Errorf("%w: unexpected parameters %v", ErrParameterMismatch, extras)
	}
	return nil
}

// Registry maps distribution ids to Specs.
//
// Thread-safety: Register is NOT safe for concurrent use. Register all
// distributions during setup; Resolve and Bind are read-only afterwards and
// safe to call from concurrent trials.
type Registry struct {
	specs map[string]Spec
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]Spec)}
}

// Register adds a distribution under id. paramNames is the exact set of
// parameter names the builder expects (nil for data-bound builders that take
// none). Returns an error wrapping ErrDuplicateDistribution if id is taken.
func (r *Registry) Register(id string, build Builder, paramNames []string) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidParameter)
	}
	if build == nil {
		return fmt.Errorf("%w: nil builder for %q", ErrInvalidParameter, id)
	}
	if _, ok := r.specs[id]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateDistribution, id)
	}
	r.specs[id] = Spec{
		ID:         id,
		Build:      build,
		ParamNames: append([]string(nil), paramNames...),
	}
	return nil
}

// Resolve returns the Spec registered under id.
func (r *Registry) Resolve(id string) (Spec, error) {
	spec, ok := r.specs[id]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownDistribution, id)
	}
	spec.ParamNames = append([]string(nil), spec.ParamNames...)
	return spec, nil
}

// IDs returns the registered distribution ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.specs))
	for id := range r.specs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// builtinTable pairs each shipped distribution with its parameter schema.
var builtinTable = []struct {
	id     string
	build  Builder
	params []string
}{
	{"bernoulli", Bernoulli, []string{"p"}},
	{"binomial", Binomial, []string{"n", "p"}},
	{"chisquared", ChiSquared, []string{"df"}},
	{"constant", Constant, []string{"value"}},
	{"exponential", Exponential, []string{"mean"}},
	{"gamma", Gamma, []string{"shape", "scale"}},
	{"lognormal", LogNormal, []string{"mu", "sigma"}},
	{"normal", Normal, []string{"mean", "std"}},
	{"poisson", Poisson, []string{"lambda"}},
	{"uniform", Uniform, []string{"min", "max"}},
}

// Builtin returns a new Registry preloaded with the shipped distributions.
func Builtin() *Registry {
	r := NewRegistry()
	for _, d := range builtinTable {
		if err := r.Register(d.id, d.build, d.params); err != nil {
			panic(err) // table ids are distinct by construction
		}
	}
	return r
}
