package mc

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// Trial-time error conditions, recorded on failed Trials.
var (
	// ErrNonFiniteStatistic marks a trial whose statistic came back NaN or
	// infinite.
	ErrNonFiniteStatistic = errors.New("non-finite statistic value")

	// ErrDrawCountMismatch marks a trial whose sampler broke the
	// exactly-n-values contract.
	ErrDrawCountMismatch = errors.New("sampler draw count mismatch")
)

// Trial is one recorded simulation trial. Immutable once recorded.
type Trial struct {
	Index  int
	Sample *Sample // per-group draws; nil when discarded by config
	Value  float64 // statistic value; meaningful only when Err is nil
	Err    error   // non-nil marks the trial failed
}

// Failed reports whether the trial was recorded as a failure.
func (t Trial) Failed() bool {
	return t.Err != nil
}

// runTrial executes trial index against its own rng stream.
// Statistic errors, non-finite values, and draw contract breaches are
// captured in the returned Trial, never propagated: one bad trial must not
// abort the batch.
func runTrial(bound []boundGroup, statistic Statistic, index int, rng *rand.Rand, discard bool) Trial {
	sample, err := drawSample(bound, rng)
	if err != nil {
		return Trial{Index: index, Err: err}
	}

	trial := Trial{Index: index}
	if !discard {
		trial.Sample = sample
	}

	value, err := statistic(sample)
	if err == nil && (math.IsNaN(value) || math.IsInf(value, 0)) {
		err = fmt.Errorf("%w: %f", ErrNonFiniteStatistic, value)
	}
	if err != nil {
		trial.Err = err
		return trial
	}
	trial.Value = value
	return trial
}
