package summary

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Binomial proportion confidence intervals. The naive normal (Wald)
// interval is not offered; it degenerates for counts near 0 or n.

// ClopperPearson returns the exact binomial confidence interval for a
// proportion of successes out of trials, via Beta distribution quantiles:
//
//	lower = BetaInv(alpha/2; k, n-k+1)
//	upper = BetaInv(1-alpha/2; k+1, n-k)
//
// The bounds are exact for any count, including k = 0 and k = n.
func ClopperPearson(successes, trials int, confidence float64) (Interval, error) {
	if err := checkProportionArgs(successes, trials, confidence); err != nil {
		return Interval{}, err
	}
	alpha := 1 - confidence
	k, n := float64(successes), float64(trials)

	iv := Interval{Lower: 0, Upper: 1}
	if successes > 0 {
		iv.Lower = distuv.Beta{Alpha: k, Beta: n - k + 1}.Quantile(alpha / 2)
	}
	if successes < trials {
		iv.Upper = distuv.Beta{Alpha: k + 1, Beta: n - k}.Quantile(1 - alpha/2)
	}
	return iv, nil
}

// Wilson returns the Wilson score interval for a proportion of successes
// out of trials. A good normal-based interval at moderate counts; for very
// small counts prefer ClopperPearson.
func Wilson(successes, trials int, confidence float64) (Interval, error) {
	if err := checkProportionArgs(successes, trials, confidence); err != nil {
		return Interval{}, err
	}
	alpha := 1 - confidence
	z := distuv.UnitNormal.Quantile(1 - alpha/2)
	n := float64(trials)
	phat := float64(successes) / n

	denom := 1 + z*z/n
	center := (phat + z*z/(2*n)) / denom
	half := z * math.Sqrt(phat*(1-phat)/n+z*z/(4*n*n)) / denom

	return Interval{
		Lower: math.Max(0, center-half),
		Upper: math.Min(1, center+half),
	}, nil
}

func checkProportionArgs(successes, trials int, confidence float64) error {
	if trials <= 0 {
		return fmt.Errorf("trials must be positive, got %d", trials)
	}
	if successes < 0 || successes > trials {
		return fmt.Errorf("successes must be in [0, %d], got %d", trials, successes)
	}
	return checkConfidence(confidence)
}
