package dist

import (
	"fmt"
	"math/rand"
	"sort"
)

// Data-bound builders close over an observed dataset instead of taking
// parameters. Register them under a caller-chosen id with a nil schema:
//
//	reg.Register("reaction-times", dist.Resample(observed), nil)
//
// Each builder copies its source slice, so later mutation of the caller's
// data cannot change registered behavior.

// Resample returns a builder drawing with replacement from data.
// This is the bootstrap building block: every draw picks a uniformly random
// observation.
func Resample(data []float64) Builder {
	src := append([]float64(nil), data...)
	return func(_ Params, n int) (Sampler, error) {
		if len(src) == 0 {
			return nil, fmt.Errorf("%w: resample source is empty", ErrInvalidParameter)
		}
		return func(rng *rand.Rand) []float64 {
			out := make([]float64, n)
			for i := range out {
				out[i] = src[rng.Intn(len(src))]
			}
			return out
		}, nil
	}
}

// Permute returns a builder drawing without replacement from data, the
// randomization step of a permutation test. Binding fails unless
// n <= len(data).
func Permute(data []float64) Builder {
	src := append([]float64(nil), data...)
	return func(_ Params, n int) (Sampler, error) {
		if len(src) == 0 {
			return nil, fmt.Errorf("%w: permute source is empty", ErrInvalidParameter)
		}
		if n > len(src) {
			return nil, fmt.Errorf("%w: cannot draw %d values without replacement from %d observations",
				ErrInvalidParameter, n, len(src))
		}
		return func(rng *rand.Rand) []float64 {
			// Partial Fisher-Yates over a fresh copy; the shared src is
			// never mutated, so concurrent trials stay independent.
			buf := append([]float64(nil), src...)
			for i := 0; i < n; i++ {
				j := i + rng.Intn(len(buf)-i)
				buf[i], buf[j] = buf[j], buf[i]
			}
			return buf[:n:n]
		}, nil
	}
}

// Weighted returns a builder drawing values proportionally to weights via
// inverse CDF with binary search. Weights need not sum to one; they are
// normalized. Zero and negative weights drop their value.
func Weighted(values, weights []float64) Builder {
	vals := append([]float64(nil), values...)
	wts := append([]float64(nil), weights...)
	return func(_ Params, n int) (Sampler, error) {
		if len(vals) != len(wts) {
			return nil, fmt.Errorf("%w: %d values vs %d weights", ErrInvalidParameter, len(vals), len(wts))
		}
		total := 0.0
		for _, w := range wts {
			if w > 0 {
				total += w
			}
		}
		if total <= 0 {
			return nil, fmt.Errorf("%w: no positive weights", ErrInvalidParameter)
		}

		kept := make([]float64, 0, len(vals))
		cdf := make([]float64, 0, len(vals))
		cumulative := 0.0
		for i, w := range wts {
			if w <= 0 {
				continue
			}
			cumulative += w / total
			kept = append(kept, vals[i])
			cdf = append(cdf, cumulative)
		}
		// Ensure the last CDF entry is exactly 1.0
		cdf[len(cdf)-1] = 1.0

		return func(rng *rand.Rand) []float64 {
			out := make([]float64, n)
			for i := range out {
				idx := sort.SearchFloat64s(cdf, rng.Float64())
				if idx >= len(kept) {
					idx = len(kept) - 1
				}
				out[i] = kept[idx]
			}
			return out
		}, nil
	}
}
