package dist

import (
	"fmt"
	"math"
	"math/rand"
)

// Shipped parametric builders. Each validates its parameter values once and
// returns a closure drawing n values per call. Draw formulas use the plain
// math/rand primitives (NormFloat64, ExpFloat64, Float64) so every stream
// stays attached to the rng the caller threads through.

// Bernoulli draws 0/1 values. Parameters: p (success probability in [0, 1]).
func Bernoulli(params Params, n int) (Sampler, error) {
	p := params["p"]
	if err := probabilityParam("p", p); err != nil {
		return nil, err
	}
	return func(rng *rand.Rand) []float64 {
		out := make([]float64, n)
		for i := range out {
			if rng.Float64() < p {
				out[i] = 1
			}
		}
		return out
	}, nil
}

// Binomial draws success counts. Parameters: n (Bernoulli components per
// draw, positive integer), p (success probability in [0, 1]).
func Binomial(params Params, n int) (Sampler, error) {
	p := params["p"]
	if err := probabilityParam("p", p); err != nil {
		return nil, err
	}
	size, err := integerParam("n", params["n"])
	if err != nil {
		return nil, err
	}
	return func(rng *rand.Rand) []float64 {
		out := make([]float64, n)
		for i := range out {
			count := 0
			for k := 0; k < size; k++ {
				if rng.Float64() < p {
					count++
				}
			}
			out[i] = float64(count)
		}
		return out
	}, nil
}

// Uniform draws from [min, max). Parameters: min, max (min < max).
func Uniform(params Params, n int) (Sampler, error) {
	lo, hi := params["min"], params["max"]
	if lo >= hi {
		return nil, fmt.Errorf("%w: min must be below max, got [%f, %f]", ErrInvalidParameter, lo, hi)
	}
	width := hi - lo
	return func(rng *rand.Rand) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = lo + width*rng.Float64()
		}
		return out
	}, nil
}

// Normal draws Gaussian values. Parameters: mean, std (std > 0).
func Normal(params Params, n int) (Sampler, error) {
	mean, std := params["mean"], params["std"]
	if err := positiveParam("std", std); err != nil {
		return nil, err
	}
	return func(rng *rand.Rand) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = rng.NormFloat64()*std + mean
		}
		return out
	}, nil
}

// LogNormal draws exp(mu + sigma*Z). Parameters: mu, sigma (sigma > 0).
func LogNormal(params Params, n int) (Sampler, error) {
	mu, sigma := params["mu"], params["sigma"]
	if err := positiveParam("sigma", sigma); err != nil {
		return nil, err
	}
	return func(rng *rand.Rand) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = math.Exp(mu + sigma*rng.NormFloat64())
		}
		return out
	}, nil
}

// Exponential draws exponentially-distributed values.
// Parameters: mean (> 0).
func Exponential(params Params, n int) (Sampler, error) {
	mean := params["mean"]
	if err := positiveParam("mean", mean); err != nil {
		return nil, err
	}
	return func(rng *rand.Rand) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = rng.ExpFloat64() * mean
		}
		return out
	}, nil
}

// Gamma draws Gamma(shape, scale) values via Marsaglia-Tsang.
// Parameters: shape (> 0), scale (> 0).
func Gamma(params Params, n int) (Sampler, error) {
	shape, scale := params["shape"], params["scale"]
	if err := positiveParam("shape", shape); err != nil {
		return nil, err
	}
	if err := positiveParam("scale", scale); err != nil {
		return nil, err
	}
	return func(rng *rand.Rand) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = gammaRand(rng, shape, scale)
		}
		return out
	}, nil
}

// ChiSquared draws chi-squared values as Gamma(df/2, 2).
// Parameters: df (degrees of freedom, > 0).
func ChiSquared(params Params, n int) (Sampler, error) {
	df := params["df"]
	if err := positiveParam("df", df); err != nil {
		return nil, err
	}
	return func(rng *rand.Rand) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = gammaRand(rng, df/2.0, 2.0)
		}
		return out
	}, nil
}

// Poisson draws event counts. Parameters: lambda (rate, > 0).
// Uses Knuth's product method; above lambda=700 the product underflows, so a
// rounded Gaussian with matching mean and variance stands in.
func Poisson(params Params, n int) (Sampler, error) {
	lambda := params["lambda"]
	if err := positiveParam("lambda", lambda); err != nil {
		return nil, err
	}
	return func(rng *rand.Rand) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = poissonRand(rng, lambda)
		}
		return out
	}, nil
}

// Constant always returns the same value. Parameters: value (finite).
// Zero-variance by construction.
func Constant(params Params, n int) (Sampler, error) {
	value := params["value"]
	return func(_ *rand.Rand) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = value
		}
		return out
	}, nil
}

// gammaRand samples from Gamma(shape, scale) using Marsaglia-Tsang's method.
// For shape >= 1: direct method.
// For shape < 1: Gamma(shape) = Gamma(shape+1) * U^(1/shape).
func gammaRand(rng *rand.Rand, shape, scale float64) float64 {
	if shape < 1.0 {
		// Ahrens-Dieter: Gamma(a) = Gamma(a+1) * U^(1/a)
		u := rng.Float64()
		if u == 0 {
			u = math.SmallestNonzeroFloat64 // prevent 0^(1/a) collapsing the draw
		}
		return gammaRand(rng, shape+1.0, scale) * math.Pow(u, 1.0/shape)
	}

	// Marsaglia-Tsang for shape >= 1
	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)

	for {
		var x, v float64
		for {
			x = rng.NormFloat64()
			v = 1.0 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := rng.Float64()

		// Squeeze test
		if u < 1.0-0.0331*(x*x)*(x*x) {
			return d * v * scale
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v * scale
		}
	}
}

// poissonRand samples a Poisson(lambda) count.
func poissonRand(rng *rand.Rand, lambda float64) float64 {
	if lambda > 700 {
		// exp(-lambda) underflows to 0 here, which would never end the loop
		val := math.Round(rng.NormFloat64()*math.Sqrt(lambda) + lambda)
		if val < 0 {
			return 0
		}
		return val
	}
	limit := math.Exp(-lambda)
	count := 0
	prod := rng.Float64()
	for prod > limit {
		count++
		prod *= rng.Float64()
	}
	return float64(count)
}

// positiveParam checks that a parameter value is strictly positive.
func positiveParam(name string, val float64) error {
	if val <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %f", ErrInvalidParameter, name, val)
	}
	return nil
}

// probabilityParam checks that a parameter value lies in [0, 1].
func probabilityParam(name string, val float64) error {
	if val < 0 || val > 1 {
		return fmt.Errorf("%w: %s must be in [0, 1], got %f", ErrInvalidParameter, name, val)
	}
	return nil
}

// integerParam checks that a parameter value is a positive integer and
// returns it as an int.
func integerParam(name string, val float64) (int, error) {
	if val < 1 || val != math.Trunc(val) {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %f", ErrInvalidParameter, name, val)
	}
	return int(val), nil
}
