package statistic

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/resample-sim/resample-sim/mc"
)

// Test-procedure statistics. Each trial reduces to a p-value (or a raw test
// statistic), so rejection rates fall out of the aggregator as exceedance
// proportions against a significance threshold.

// WelchT returns Welch's t statistic for mean(a) - mean(b).
// Needs at least 2 values per group and a positive standard error.
func WelchT(a, b string) mc.Statistic {
	return func(s *mc.Sample) (float64, error) {
		t, _, err := welch(s, a, b)
		return t, err
	}
}

// WelchTPValue returns the two-sided p-value of Welch's t-test comparing
// groups a and b, with Welch-Satterthwaite degrees of freedom and an exact
// Student's t CDF.
func WelchTPValue(a, b string) mc.Statistic {
	return func(s *mc.Sample) (float64, error) {
		t, df, err := welch(s, a, b)
		if err != nil {
			return 0, err
		}
		tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
		return 2 * (1 - tDist.CDF(math.Abs(t))), nil
	}
}

// welch computes the t statistic and Welch-Satterthwaite degrees of freedom.
func welch(s *mc.Sample, a, b string) (t, df float64, err error) {
	va, err := group(s, a)
	if err != nil {
		return 0, 0, err
	}
	vb, err := group(s, b)
	if err != nil {
		return 0, 0, err
	}
	n1, n2 := float64(len(va)), float64(len(vb))
	if len(va) < 2 || len(vb) < 2 {
		return 0, 0, fmt.Errorf("%w: Welch's t needs at least 2 values per group, got %d and %d",
			ErrDegenerate, len(va), len(vb))
	}

	mean1, var1 := meanVariance(va)
	mean2, var2 := meanVariance(vb)

	// t = (mean1 - mean2) / sqrt(var1/n1 + var2/n2)
	seSq := var1/n1 + var2/n2
	if seSq == 0 {
		return 0, 0, fmt.Errorf("%w: zero variance in both groups", ErrDegenerate)
	}
	t = (mean1 - mean2) / math.Sqrt(seSq)

	// Welch-Satterthwaite equation
	df = seSq * seSq / (math.Pow(var1/n1, 2)/(n1-1) + math.Pow(var2/n2, 2)/(n2-1))
	return t, df, nil
}

// RankSumPValue returns the two-sided p-value of the Wilcoxon rank-sum
// (Mann-Whitney U) test comparing groups a and b, using the large-sample
// normal approximation with average ranks for ties.
func RankSumPValue(a, b string) mc.Statistic {
	return func(s *mc.Sample) (float64, error) {
		va, err := group(s, a)
		if err != nil {
			return 0, err
		}
		vb, err := group(s, b)
		if err != nil {
			return 0, err
		}
		n1, n2 := float64(len(va)), float64(len(vb))

		combined := make([]float64, 0, len(va)+len(vb))
		combined = append(combined, va...)
		combined = append(combined, vb...)
		ranks := rankData(combined)

		r1 := 0.0
		for i := range va {
			r1 += ranks[i]
		}
		u := r1 - n1*(n1+1)/2.0

		meanU := n1 * n2 / 2.0
		stdU := math.Sqrt(n1 * n2 * (n1 + n2 + 1) / 12.0)
		z := (u - meanU) / stdU
		return 2 * (1 - distuv.UnitNormal.CDF(math.Abs(z))), nil
	}
}

// rankData assigns 1-based ranks to data, averaging ranks over ties.
func rankData(data []float64) []float64 {
	order := make([]int, len(data))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return data[order[i]] < data[order[j]]
	})

	ranks := make([]float64, len(data))
	for i := 0; i < len(order); {
		j := i
		for j+1 < len(order) && data[order[j+1]] == data[order[i]] {
			j++
		}
		// positions i..j hold tied values; each gets the average rank
		avg := (float64(i+1) + float64(j+1)) / 2.0
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		i = j + 1
	}
	return ranks
}
