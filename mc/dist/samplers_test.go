package dist

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func draw(t *testing.T, build Builder, params Params, n int) []float64 {
	t.Helper()
	sampler, err := build(params, n)
	if err != nil {
		t.Fatalf("builder failed: %v", err)
	}
	return sampler(rand.New(rand.NewSource(42)))
}

func sampleMean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sampleVariance(values []float64) float64 {
	m := sampleMean(values)
	sum := 0.0
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return sum / float64(len(values)-1)
}

// === Parametric Sampler Tests ===

func TestBernoulli_MeanMatchesP(t *testing.T) {
	values := draw(t, Bernoulli, Params{"p": 0.3}, 10000)
	for i, v := range values {
		if v != 0 && v != 1 {
			t.Fatalf("sample %d: got %v, want 0 or 1", i, v)
		}
	}
	mean := sampleMean(values)
	if math.Abs(mean-0.3) > 0.02 {
		t.Errorf("bernoulli mean = %.3f, want ≈ 0.3", mean)
	}
}

func TestBernoulli_DegenerateProbabilities(t *testing.T) {
	for i, v := range draw(t, Bernoulli, Params{"p": 0.0}, 1000) {
		if v != 0 {
			t.Fatalf("p=0 sample %d: got %v, want 0", i, v)
		}
	}
	for i, v := range draw(t, Bernoulli, Params{"p": 1.0}, 1000) {
		if v != 1 {
			t.Fatalf("p=1 sample %d: got %v, want 1", i, v)
		}
	}
}

func TestBinomial_MeanAndVariance(t *testing.T) {
	values := draw(t, Binomial, Params{"n": 20, "p": 0.3}, 10000)
	for i, v := range values {
		if v < 0 || v > 20 || v != math.Trunc(v) {
			t.Fatalf("sample %d: got %v, want integer in [0, 20]", i, v)
		}
	}
	mean := sampleMean(values)
	if math.Abs(mean-6)/6 > 0.05 {
		t.Errorf("binomial mean = %.2f, want ≈ 6 (within 5%%)", mean)
	}
	variance := sampleVariance(values)
	if math.Abs(variance-4.2)/4.2 > 0.10 {
		t.Errorf("binomial variance = %.2f, want ≈ 4.2 (within 10%%)", variance)
	}
}

func TestUniform_RangeAndMean(t *testing.T) {
	values := draw(t, Uniform, Params{"min": 5, "max": 15}, 10000)
	for i, v := range values {
		if v < 5 || v >= 15 {
			t.Fatalf("sample %d: %v outside [5, 15)", i, v)
		}
	}
	mean := sampleMean(values)
	if math.Abs(mean-10)/10 > 0.02 {
		t.Errorf("uniform mean = %.2f, want ≈ 10", mean)
	}
}

func TestNormal_MeanAndStd(t *testing.T) {
	values := draw(t, Normal, Params{"mean": 512, "std": 128}, 10000)
	mean := sampleMean(values)
	if math.Abs(mean-512)/512 > 0.05 {
		t.Errorf("normal mean = %.1f, want ≈ 512 (within 5%%)", mean)
	}
	std := math.Sqrt(sampleVariance(values))
	if math.Abs(std-128)/128 > 0.05 {
		t.Errorf("normal std = %.1f, want ≈ 128 (within 5%%)", std)
	}
}

func TestLogNormal_MeanMatchesMoments(t *testing.T) {
	// E[X] = exp(mu + sigma^2/2)
	values := draw(t, LogNormal, Params{"mu": 1, "sigma": 0.5}, 10000)
	for i, v := range values {
		if v <= 0 {
			t.Fatalf("sample %d: got %v, want > 0", i, v)
		}
	}
	want := math.Exp(1 + 0.5*0.5/2)
	mean := sampleMean(values)
	if math.Abs(mean-want)/want > 0.05 {
		t.Errorf("lognormal mean = %.3f, want ≈ %.3f (within 5%%)", mean, want)
	}
}

func TestExponential_MeanMatchesParam(t *testing.T) {
	values := draw(t, Exponential, Params{"mean": 256}, 10000)
	for i, v := range values {
		if v < 0 {
			t.Fatalf("sample %d: got %v, want >= 0", i, v)
		}
	}
	mean := sampleMean(values)
	if math.Abs(mean-256)/256 > 0.05 {
		t.Errorf("exponential mean = %.1f, want ≈ 256 (within 5%%)", mean)
	}
}

func TestGamma_MeanAndVariance(t *testing.T) {
	// mean = shape*scale, variance = shape*scale^2
	values := draw(t, Gamma, Params{"shape": 3, "scale": 2}, 10000)
	mean := sampleMean(values)
	if math.Abs(mean-6)/6 > 0.05 {
		t.Errorf("gamma mean = %.2f, want ≈ 6 (within 5%%)", mean)
	}
	variance := sampleVariance(values)
	if math.Abs(variance-12)/12 > 0.15 {
		t.Errorf("gamma variance = %.2f, want ≈ 12 (within 15%%)", variance)
	}
}

func TestGamma_ShapeBelowOne(t *testing.T) {
	// Exercises the Ahrens-Dieter boost branch.
	values := draw(t, Gamma, Params{"shape": 0.5, "scale": 1}, 10000)
	for i, v := range values {
		if v < 0 {
			t.Fatalf("sample %d: got %v, want >= 0", i, v)
		}
	}
	mean := sampleMean(values)
	if math.Abs(mean-0.5)/0.5 > 0.10 {
		t.Errorf("gamma(0.5, 1) mean = %.3f, want ≈ 0.5 (within 10%%)", mean)
	}
}

func TestChiSquared_MeanAndVariance(t *testing.T) {
	// mean = df, variance = 2*df
	values := draw(t, ChiSquared, Params{"df": 12}, 10000)
	mean := sampleMean(values)
	if math.Abs(mean-12)/12 > 0.05 {
		t.Errorf("chisquared mean = %.2f, want ≈ 12 (within 5%%)", mean)
	}
	variance := sampleVariance(values)
	if math.Abs(variance-24)/24 > 0.15 {
		t.Errorf("chisquared variance = %.2f, want ≈ 24 (within 15%%)", variance)
	}
}

func TestPoisson_MeanMatchesLambda(t *testing.T) {
	values := draw(t, Poisson, Params{"lambda": 4}, 10000)
	for i, v := range values {
		if v < 0 || v != math.Trunc(v) {
			t.Fatalf("sample %d: got %v, want non-negative integer", i, v)
		}
	}
	mean := sampleMean(values)
	if math.Abs(mean-4)/4 > 0.05 {
		t.Errorf("poisson mean = %.3f, want ≈ 4 (within 5%%)", mean)
	}
}

func TestPoisson_LargeLambdaFallback(t *testing.T) {
	// Above lambda=700 the Knuth product underflows; the Gaussian stand-in
	// must preserve mean and variance.
	values := draw(t, Poisson, Params{"lambda": 10000}, 10000)
	for i, v := range values {
		if v < 0 || v != math.Trunc(v) {
			t.Fatalf("sample %d: got %v, want non-negative integer", i, v)
		}
	}
	mean := sampleMean(values)
	if math.Abs(mean-10000)/10000 > 0.01 {
		t.Errorf("poisson(1e4) mean = %.1f, want ≈ 10000 (within 1%%)", mean)
	}
	std := math.Sqrt(sampleVariance(values))
	if math.Abs(std-100)/100 > 0.05 {
		t.Errorf("poisson(1e4) std = %.1f, want ≈ 100 (within 5%%)", std)
	}
}

func TestConstant_AllDrawsEqual(t *testing.T) {
	values := draw(t, Constant, Params{"value": 3.25}, 1000)
	for i, v := range values {
		if v != 3.25 {
			t.Fatalf("sample %d: got %v, want 3.25", i, v)
		}
	}
}

// === Validation Tests ===

func TestBuilders_RejectInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		build  Builder
		params Params
	}{
		{"bernoulli p below 0", Bernoulli, Params{"p": -0.1}},
		{"bernoulli p above 1", Bernoulli, Params{"p": 1.1}},
		{"binomial fractional n", Binomial, Params{"n": 2.5, "p": 0.5}},
		{"binomial zero n", Binomial, Params{"n": 0, "p": 0.5}},
		{"uniform empty range", Uniform, Params{"min": 3, "max": 3}},
		{"uniform inverted range", Uniform, Params{"min": 5, "max": 1}},
		{"normal zero std", Normal, Params{"mean": 0, "std": 0}},
		{"normal negative std", Normal, Params{"mean": 0, "std": -2}},
		{"lognormal zero sigma", LogNormal, Params{"mu": 0, "sigma": 0}},
		{"exponential zero mean", Exponential, Params{"mean": 0}},
		{"gamma zero shape", Gamma, Params{"shape": 0, "scale": 1}},
		{"gamma negative scale", Gamma, Params{"shape": 1, "scale": -1}},
		{"chisquared zero df", ChiSquared, Params{"df": 0}},
		{"poisson zero lambda", Poisson, Params{"lambda": 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build(tt.params, 10)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("error = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestSamplers_DeterministicForSameSeed(t *testing.T) {
	sampler, err := Normal(Params{"mean": 0, "std": 1}, 100)
	if err != nil {
		t.Fatal(err)
	}

	v1 := sampler(rand.New(rand.NewSource(7)))
	v2 := sampler(rand.New(rand.NewSource(7)))
	for i := range v1 {
		if v1[i] != v2[i] {
			t.Fatalf("draw %d differs for identical seeds: %v vs %v", i, v1[i], v2[i])
		}
	}
}

func TestSamplers_SharedSamplerIndependentStreams(t *testing.T) {
	// One bound Sampler serves many rngs without cross-talk: each stream
	// replays exactly what a dedicated sampler would produce.
	sampler, err := Exponential(Params{"mean": 3}, 5)
	if err != nil {
		t.Fatal(err)
	}

	rngA := rand.New(rand.NewSource(1))
	rngB := rand.New(rand.NewSource(2))
	interleavedA := sampler(rngA)
	interleavedB := sampler(rngB)

	wantA := sampler(rand.New(rand.NewSource(1)))
	wantB := sampler(rand.New(rand.NewSource(2)))

	for i := range wantA {
		if interleavedA[i] != wantA[i] {
			t.Errorf("stream A draw %d = %v, want %v", i, interleavedA[i], wantA[i])
		}
		if interleavedB[i] != wantB[i] {
			t.Errorf("stream B draw %d = %v, want %v", i, interleavedB[i], wantB[i])
		}
	}
}
