package mc

import (
	"fmt"
	"math/rand"

	"github.com/resample-sim/resample-sim/mc/dist"
)

// Group is one labeled set of draws within a trial sample.
type Group struct {
	Label  string
	Values []float64
}

// Sample holds one trial's draws for every configured group, in GroupSpec
// declaration order. Group labels must be distinct; the engine guarantees
// this for samples it draws.
type Sample struct {
	groups []Group
	index  map[string]int
}

// NewSample assembles a Sample from labeled groups.
func NewSample(groups []Group) *Sample {
	index := make(map[string]int, len(groups))
	for i, g := range groups {
		index[g.Label] = i
	}
	return &Sample{groups: groups, index: index}
}

// Len returns the number of groups.
func (s *Sample) Len() int {
	return len(s.groups)
}

// Labels returns the group labels in declaration order.
func (s *Sample) Labels() []string {
	labels := make([]string, len(s.groups))
	for i, g := range s.groups {
		labels[i] = g.Label
	}
	return labels
}

// Group returns the draws for label and whether the label exists.
func (s *Sample) Group(label string) ([]float64, bool) {
	i, ok := s.index[label]
	if !ok {
		return nil, false
	}
	return s.groups[i].Values, true
}

// Groups returns all groups in declaration order.
func (s *Sample) Groups() []Group {
	return s.groups
}

// Flatten concatenates all group draws in declaration order.
func (s *Sample) Flatten() []float64 {
	total := 0
	for _, g := range s.groups {
		total += len(g.Values)
	}
	out := make([]float64, 0, total)
	for _, g := range s.groups {
		out = append(out, g.Values...)
	}
	return out
}

// boundGroup is a GroupSpec resolved and bound to its sampler.
type boundGroup struct {
	label string
	size  int
	draw  dist.Sampler
}

// compileGroups validates groups against reg and binds each one to its
// sampler. All configuration errors surface here, before any sampling.
func compileGroups(reg *dist.Registry, groups []GroupSpec) ([]boundGroup, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: at least one group required", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(groups))
	bound := make([]boundGroup, 0, len(groups))
	for i, g := range groups {
		prefix := fmt.Sprintf("group[%d] %q", i, g.Label)
		if g.Label == "" {
			return nil, fmt.Errorf("group[%d]: %w: empty label", i, ErrInvalidConfig)
		}
		if seen[g.Label] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateGroupLabel, g.Label)
		}
		seen[g.Label] = true
		if g.Size <= 0 {
			return nil, fmt.Errorf("%s: %w: size must be positive, got %d", prefix, ErrInvalidConfig, g.Size)
		}
		spec, err := reg.Resolve(g.Distribution)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", prefix, err)
		}
		draw, err := spec.Bind(g.Params, g.Size)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", prefix, err)
		}
		bound = append(bound, boundGroup{label: g.Label, size: g.Size, draw: draw})
	}
	return bound, nil
}

// drawSample draws every bound group once from rng, in declaration order.
// A sampler returning the wrong number of values is rejected here so a
// broken custom distribution cannot smuggle short groups into a trial.
func drawSample(bound []boundGroup, rng *rand.Rand) (*Sample, error) {
	groups := make([]Group, len(bound))
	for i, g := range bound {
		values := g.draw(rng)
		if len(values) != g.size {
			return nil, fmt.Errorf("%w: group %q returned %d values, want %d",
				ErrDrawCountMismatch, g.label, len(values), g.size)
		}
		groups[i] = Group{Label: g.label, Values: values}
	}
	return NewSample(groups), nil
}

// SampleGroups validates groups against reg and draws one sample per group
// from rng, in declaration order. Validation failures (duplicate labels,
// unknown distributions, parameter mismatches) surface before any draw.
func SampleGroups(reg *dist.Registry, groups []GroupSpec, rng *rand.Rand) (*Sample, error) {
	bound, err := compileGroups(reg, groups)
	if err != nil {
		return nil, err
	}
	return drawSample(bound, rng)
}
