// Package statistic ships per-trial statistic constructors for the mc
// engine.
//
// Every constructor returns an mc.Statistic closure with its group labels
// and tuning bound up front, so a Config carries a ready callable and the
// engine never interprets names at trial time. Statistics signal
// unusable samples (missing labels, too few values, zero variance) by
// returning an error wrapping ErrDegenerate, which the driver records as a
// trial failure without stopping the batch.
package statistic

import (
	"errors"
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/resample-sim/resample-sim/mc"
)

// ErrDegenerate marks a sample a statistic could not be computed from.
var ErrDegenerate = errors.New("degenerate sample")

// Sum returns the sum of all draws across groups.
func Sum() mc.Statistic {
	return func(s *mc.Sample) (float64, error) {
		return stats.Sum(s.Flatten())
	}
}

// Mean returns the mean of all draws across groups.
func Mean() mc.Statistic {
	return func(s *mc.Sample) (float64, error) {
		return stats.Mean(s.Flatten())
	}
}

// Median returns the median of all draws across groups.
func Median() mc.Statistic {
	return func(s *mc.Sample) (float64, error) {
		return stats.Median(s.Flatten())
	}
}

// StdDev returns the sample standard deviation of all draws across groups.
func StdDev() mc.Statistic {
	return func(s *mc.Sample) (float64, error) {
		values := s.Flatten()
		if len(values) < 2 {
			return 0, fmt.Errorf("%w: need at least 2 values for a standard deviation, got %d",
				ErrDegenerate, len(values))
		}
		return stats.StandardDeviationSample(values)
	}
}

// GroupMean returns the mean of the named group's draws.
func GroupMean(label string) mc.Statistic {
	return func(s *mc.Sample) (float64, error) {
		values, err := group(s, label)
		if err != nil {
			return 0, err
		}
		return stats.Mean(values)
	}
}

// DiffMeans returns mean(a) - mean(b).
func DiffMeans(a, b string) mc.Statistic {
	return func(s *mc.Sample) (float64, error) {
		va, err := group(s, a)
		if err != nil {
			return 0, err
		}
		vb, err := group(s, b)
		if err != nil {
			return 0, err
		}
		ma, err := stats.Mean(va)
		if err != nil {
			return 0, err
		}
		mb, err := stats.Mean(vb)
		if err != nil {
			return 0, err
		}
		return ma - mb, nil
	}
}

// group fetches a non-empty labeled group from the sample.
func group(s *mc.Sample, label string) ([]float64, error) {
	values, ok := s.Group(label)
	if !ok {
		return nil, fmt.Errorf("%w: no group %q in sample", ErrDegenerate, label)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: group %q is empty", ErrDegenerate, label)
	}
	return values, nil
}

// meanVariance computes the mean and sample variance in one pass.
func meanVariance(values []float64) (mean, variance float64) {
	n := float64(len(values))
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean = sum / n
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	if len(values) < 2 {
		return mean, 0
	}
	return mean, sumSq / (n - 1)
}
