// Package summary provides read-only aggregation views over a ResultSet.
//
// A Summary snapshots the successful statistic values once at construction
// (sorted) and recomputes every view on demand from that snapshot, so views
// are idempotent and never mutate the ResultSet they came from.
package summary

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/resample-sim/resample-sim/mc"
)

// ErrNoSuccessfulTrials is returned when a summary is requested over a
// ResultSet in which every trial failed. Failure counts are still available
// on the ResultSet itself.
var ErrNoSuccessfulTrials = errors.New("no successful trials to aggregate")

// Comparator selects how values are compared against a threshold.
type Comparator string

const (
	Above   Comparator = "above"
	AtLeast Comparator = "at_least"
	Below   Comparator = "below"
	AtMost  Comparator = "at_most"
)

// validComparators is the comparator registry.
var validComparators = map[Comparator]bool{
	Above: true, AtLeast: true, Below: true, AtMost: true,
}

// satisfies reports whether value compares to threshold under c.
func (c Comparator) satisfies(value, threshold float64) bool {
	switch c {
	case Above:
		return value > threshold
	case AtLeast:
		return value >= threshold
	case Below:
		return value < threshold
	default:
		return value <= threshold
	}
}

// Interval is a two-sided confidence or quantile interval.
type Interval struct {
	Lower float64
	Upper float64
}

// Contains reports whether x lies in the closed interval.
func (iv Interval) Contains(x float64) bool {
	return x >= iv.Lower && x <= iv.Upper
}

// Summary is a non-owning aggregation view over one ResultSet.
type Summary struct {
	values    []float64 // successful statistic values, sorted ascending
	requested int
	failures  int
	partial   bool
}

// New builds a Summary over rs. Returns an error wrapping
// ErrNoSuccessfulTrials when every recorded trial failed.
func New(rs *mc.ResultSet) (*Summary, error) {
	values := rs.Values()
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: %d trials recorded, %d failed",
			ErrNoSuccessfulTrials, rs.Len(), rs.FailureCount())
	}
	sort.Float64s(values)
	return &Summary{
		values:    values,
		requested: rs.Requested,
		failures:  rs.FailureCount(),
		partial:   rs.Partial,
	}, nil
}

// Successes returns the number of successful trials in the view.
func (s *Summary) Successes() int {
	return len(s.values)
}

// Failures returns the number of failed trials in the view.
func (s *Summary) Failures() int {
	return s.failures
}

// Requested returns the trial count the originating run asked for.
func (s *Summary) Requested() int {
	return s.requested
}

// Partial reports whether the originating run terminated early.
func (s *Summary) Partial() bool {
	return s.partial
}

// Quantile returns the empirical p-quantile of the successful values using
// linear interpolation between order statistics. Non-decreasing in p.
func (s *Summary) Quantile(p float64) (float64, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("quantile probability must be in [0, 1], got %f", p)
	}
	idx := p * float64(len(s.values)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper {
		return s.values[lower], nil
	}
	frac := idx - float64(lower)
	return s.values[lower] + frac*(s.values[upper]-s.values[lower]), nil
}

// QuantileRange returns the {pLo, pHi} empirical quantile pair as an
// Interval, the percentile interval used for bootstrap confidence bounds.
func (s *Summary) QuantileRange(pLo, pHi float64) (Interval, error) {
	if pLo > pHi {
		return Interval{}, fmt.Errorf("quantile range is inverted: [%f, %f]", pLo, pHi)
	}
	lower, err := s.Quantile(pLo)
	if err != nil {
		return Interval{}, err
	}
	upper, err := s.Quantile(pHi)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Lower: lower, Upper: upper}, nil
}

// CenteredInterval returns the central quantile interval holding the given
// confidence mass: QuantileRange(alpha/2, 1-alpha/2) for alpha = 1-confidence.
func (s *Summary) CenteredInterval(confidence float64) (Interval, error) {
	if err := checkConfidence(confidence); err != nil {
		return Interval{}, err
	}
	alpha := 1 - confidence
	return s.QuantileRange(alpha/2, 1-alpha/2)
}

// Proportion returns the fraction of successful values satisfying the
// comparator against threshold.
func (s *Summary) Proportion(threshold float64, cmp Comparator) (float64, error) {
	count, err := s.count(threshold, cmp)
	if err != nil {
		return 0, err
	}
	return float64(count) / float64(len(s.values)), nil
}

// ProportionCI returns the Clopper-Pearson confidence interval for the
// satisfying proportion. Exact even for small satisfying counts.
func (s *Summary) ProportionCI(threshold float64, cmp Comparator, confidence float64) (Interval, error) {
	count, err := s.count(threshold, cmp)
	if err != nil {
		return Interval{}, err
	}
	return ClopperPearson(count, len(s.values), confidence)
}

func (s *Summary) count(threshold float64, cmp Comparator) (int, error) {
	if !validComparators[cmp] {
		return 0, fmt.Errorf("unknown comparator %q; valid: above, at_least, below, at_most", cmp)
	}
	count := 0
	for _, v := range s.values {
		if cmp.satisfies(v, threshold) {
			count++
		}
	}
	return count, nil
}

// MeanCI returns the Student-t confidence interval for the mean of the
// successful values.
func (s *Summary) MeanCI(confidence float64) (Interval, error) {
	if err := checkConfidence(confidence); err != nil {
		return Interval{}, err
	}
	n := len(s.values)
	if n < 2 {
		return Interval{}, fmt.Errorf("mean interval needs at least 2 values, got %d", n)
	}
	mean, err := stats.Mean(s.values)
	if err != nil {
		return Interval{}, err
	}
	sd, err := stats.StandardDeviationSample(s.values)
	if err != nil {
		return Interval{}, err
	}

	df := float64(n - 1)
	alpha := 1 - confidence
	tCritical := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Quantile(1 - alpha/2)
	margin := tCritical * sd / math.Sqrt(float64(n))
	return Interval{Lower: mean - margin, Upper: mean + margin}, nil
}

// Desc holds descriptive statistics of the successful values.
type Desc struct {
	Successes int
	Failures  int
	Mean      float64
	StdDev    float64 // 0 when fewer than 2 values
	Median    float64
	Min       float64
	Max       float64
}

// Describe computes descriptive statistics over the successful values.
func (s *Summary) Describe() (Desc, error) {
	d := Desc{Successes: len(s.values), Failures: s.failures}

	var err error
	if d.Mean, err = stats.Mean(s.values); err != nil {
		return Desc{}, err
	}
	if d.Median, err = stats.Median(s.values); err != nil {
		return Desc{}, err
	}
	if d.Min, err = stats.Min(s.values); err != nil {
		return Desc{}, err
	}
	if d.Max, err = stats.Max(s.values); err != nil {
		return Desc{}, err
	}
	if len(s.values) >= 2 {
		if d.StdDev, err = stats.StandardDeviationSample(s.values); err != nil {
			return Desc{}, err
		}
	}
	return d, nil
}

// checkConfidence validates a confidence level.
func checkConfidence(confidence float64) error {
	if math.IsNaN(confidence) || confidence <= 0 || confidence >= 1 {
		return fmt.Errorf("confidence level must be in (0, 1), got %f", confidence)
	}
	return nil
}
