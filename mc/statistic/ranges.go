package statistic

import (
	"fmt"
	"math"

	"github.com/resample-sim/resample-sim/mc"
)

// Range statistics across all configured groups. Simulating their null
// distribution is how critical values for multiple-comparison procedures
// (Tukey-style studentized range) are estimated.

// MeanRange returns max(group means) - min(group means) over all groups.
// Needs at least 2 groups.
func MeanRange() mc.Statistic {
	return func(s *mc.Sample) (float64, error) {
		if s.Len() < 2 {
			return 0, fmt.Errorf("%w: mean range needs at least 2 groups, got %d", ErrDegenerate, s.Len())
		}
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, g := range s.Groups() {
			values, err := group(s, g.Label)
			if err != nil {
				return 0, err
			}
			mean, _ := meanVariance(values)
			lo = math.Min(lo, mean)
			hi = math.Max(hi, mean)
		}
		return hi - lo, nil
	}
}

// StudentizedRange returns the studentized range statistic
//
//	Q = (max group mean - min group mean) / sqrt(MSE / n)
//
// where MSE is the mean of the within-group sample variances and n the
// common group size. Groups must all have the same size, at least 2. The
// empirical quantiles of Q under identical group distributions are the
// critical values of Tukey's range procedure.
func StudentizedRange() mc.Statistic {
	return func(s *mc.Sample) (float64, error) {
		if s.Len() < 2 {
			return 0, fmt.Errorf("%w: studentized range needs at least 2 groups, got %d", ErrDegenerate, s.Len())
		}

		lo, hi := math.Inf(1), math.Inf(-1)
		mse := 0.0
		size := -1
		for _, g := range s.Groups() {
			values, err := group(s, g.Label)
			if err != nil {
				return 0, err
			}
			if size == -1 {
				size = len(values)
			} else if len(values) != size {
				return 0, fmt.Errorf("%w: studentized range needs equal group sizes, got %d and %d",
					ErrDegenerate, size, len(values))
			}
			mean, variance := meanVariance(values)
			lo = math.Min(lo, mean)
			hi = math.Max(hi, mean)
			mse += variance
		}
		if size < 2 {
			return 0, fmt.Errorf("%w: studentized range needs group size >= 2, got %d", ErrDegenerate, size)
		}
		mse /= float64(s.Len())
		if mse == 0 {
			return 0, fmt.Errorf("%w: zero within-group variance", ErrDegenerate)
		}
		return (hi - lo) / math.Sqrt(mse/float64(size)), nil
	}
}
