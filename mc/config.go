package mc

import (
	"errors"
	"fmt"

	"github.com/resample-sim/resample-sim/mc/dist"
)

// Configuration-time error conditions.
var (
	// ErrInvalidConfig is wrapped by every error Validate can return.
	ErrInvalidConfig = errors.New("invalid simulation config")

	// ErrDuplicateGroupLabel is returned when two groups share a label.
	ErrDuplicateGroupLabel = errors.New("duplicate group label")
)

// GroupSpec declares one labeled group of random draws per trial.
type GroupSpec struct {
	Label        string      // unique within a Config
	Size         int         // draws per trial, > 0
	Distribution string      // registry id
	Params       dist.Params // parameter values for the distribution
}

// Statistic reduces one trial's sample to a scalar. Returning an error marks
// that trial failed without stopping the batch; the error is recorded on the
// Trial.
type Statistic func(s *Sample) (float64, error)

// Config describes a complete simulation run.
type Config struct {
	Groups    []GroupSpec
	Trials    int
	Statistic Statistic
	Seed      int64

	// Workers bounds trial parallelism: 0 means one worker per CPU,
	// 1 forces sequential execution. Results are identical either way.
	Workers int

	// Registry resolves Distribution ids; nil means the shipped builtins.
	Registry *dist.Registry

	// DiscardSamples drops per-trial draws from recorded Trials. The
	// default retains them, which large runs may not want to pay for.
	DiscardSamples bool
}

// defaultRegistry backs configs that leave Registry nil. Never mutated.
var defaultRegistry = dist.Builtin()

func (c *Config) registry() *dist.Registry {
	if c.Registry != nil {
		return c.Registry
	}
	return defaultRegistry
}

// compile checks every field and binds the groups to their samplers.
// Validation happens exactly once per run, never per trial.
func (c *Config) compile() ([]boundGroup, error) {
	if c.Trials <= 0 {
		return nil, fmt.Errorf("%w: trials must be positive, got %d", ErrInvalidConfig, c.Trials)
	}
	if c.Statistic == nil {
		return nil, fmt.Errorf("%w: statistic is required", ErrInvalidConfig)
	}
	if c.Workers < 0 {
		return nil, fmt.Errorf("%w: workers must be non-negative, got %d", ErrInvalidConfig, c.Workers)
	}
	bound, err := compileGroups(c.registry(), c.Groups)
	if err != nil {
		if errors.Is(err, ErrInvalidConfig) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return bound, nil
}

// Validate checks the run description without executing anything.
// Every failure wraps ErrInvalidConfig; more specific conditions
// (ErrDuplicateGroupLabel, dist.ErrUnknownDistribution,
// dist.ErrParameterMismatch, ...) remain inspectable through errors.Is.
func (c *Config) Validate() error {
	_, err := c.compile()
	return err
}
