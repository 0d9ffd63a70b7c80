package experiment

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resample-sim/resample-sim/mc"
	"github.com/resample-sim/resample-sim/mc/summary"
)

// TestExampleDocs_CoinFlip verifies that coin-flip.yaml loads correctly
// and describes the ten-flip tail probability experiment.
func TestExampleDocs_CoinFlip(t *testing.T) {
	// GIVEN the coin-flip.yaml example document
	path := filepath.Join("..", "..", "examples", "coin-flip.yaml")
	spec, err := Load(path)
	require.NoError(t, err, "failed to load coin-flip.yaml")

	// THEN validation passes
	require.NoError(t, spec.Validate(), "validation failed")

	// THEN the run draws 10 fair coin flips per trial
	assert.Equal(t, int64(42), spec.Seed)
	assert.Equal(t, 1000, spec.Trials)
	require.Len(t, spec.Groups, 1)
	assert.Equal(t, "flips", spec.Groups[0].Label)
	assert.Equal(t, 10, spec.Groups[0].Size)
	assert.Equal(t, "bernoulli", spec.Groups[0].Distribution)
	assert.Equal(t, 0.5, spec.Groups[0].Params["p"])

	// THEN the statistic is the per-trial head count
	assert.Equal(t, "sum", spec.Statistic.Name)

	// THEN the report asks for the at-least-8 exceedance
	require.NotNil(t, spec.Report)
	require.NotNil(t, spec.Report.Threshold)
	assert.Equal(t, 8.0, spec.Report.Threshold.Value)
	assert.Equal(t, "at_least", spec.Report.Threshold.Comparator)
	assert.Equal(t, 0.95, spec.Report.Confidence)

	// THEN the document builds into a valid engine config
	cfg, err := spec.Build()
	require.NoError(t, err, "build failed")
	assert.Equal(t, 1000, cfg.Trials)
}

// TestExampleDocs_WelchSize verifies that welch-size.yaml loads correctly
// and leaves the report confidence at its default.
func TestExampleDocs_WelchSize(t *testing.T) {
	// GIVEN the welch-size.yaml example document
	path := filepath.Join("..", "..", "examples", "welch-size.yaml")
	spec, err := Load(path)
	require.NoError(t, err, "failed to load welch-size.yaml")

	// THEN validation passes
	require.NoError(t, spec.Validate(), "validation failed")

	// THEN both groups draw 20 standard normals
	require.Len(t, spec.Groups, 2)
	for _, g := range spec.Groups {
		assert.Equal(t, 20, g.Size)
		assert.Equal(t, "normal", g.Distribution)
		assert.Equal(t, 0.0, g.Params["mean"])
		assert.Equal(t, 1.0, g.Params["std"])
	}

	// THEN the statistic compares control against treatment
	assert.Equal(t, "welch_t_pvalue", spec.Statistic.Name)
	assert.Equal(t, "control", spec.Statistic.A)
	assert.Equal(t, "treatment", spec.Statistic.B)

	// THEN the omitted confidence takes the default
	require.NotNil(t, spec.Report)
	assert.Equal(t, DefaultConfidence, spec.Report.Confidence)

	// THEN the document builds into a valid engine config
	_, err = spec.Build()
	require.NoError(t, err, "build failed")
}

// TestExampleDocs_RankSumUnequalVariance verifies that
// ranksum-unequal-variance.yaml loads correctly with its unbalanced groups.
func TestExampleDocs_RankSumUnequalVariance(t *testing.T) {
	// GIVEN the ranksum-unequal-variance.yaml example document
	path := filepath.Join("..", "..", "examples", "ranksum-unequal-variance.yaml")
	spec, err := Load(path)
	require.NoError(t, err, "failed to load ranksum-unequal-variance.yaml")

	// THEN validation passes
	require.NoError(t, spec.Validate(), "validation failed")

	// THEN the smaller group carries the larger spread
	require.Len(t, spec.Groups, 2)
	assert.Equal(t, "small-noisy", spec.Groups[0].Label)
	assert.Equal(t, 10, spec.Groups[0].Size)
	assert.Equal(t, 4.0, spec.Groups[0].Params["std"])
	assert.Equal(t, "large-quiet", spec.Groups[1].Label)
	assert.Equal(t, 40, spec.Groups[1].Size)
	assert.Equal(t, 1.0, spec.Groups[1].Params["std"])

	// THEN the report counts rejections at the 0.05 level
	require.NotNil(t, spec.Report)
	require.NotNil(t, spec.Report.Threshold)
	assert.Equal(t, 0.05, spec.Report.Threshold.Value)
	assert.Equal(t, "at_most", spec.Report.Threshold.Comparator)

	// THEN the document builds into a valid engine config
	_, err = spec.Build()
	require.NoError(t, err, "build failed")
}

// TestExampleDocs_TukeyRange verifies that tukey-range.yaml loads
// correctly with four equal groups.
func TestExampleDocs_TukeyRange(t *testing.T) {
	// GIVEN the tukey-range.yaml example document
	path := filepath.Join("..", "..", "examples", "tukey-range.yaml")
	spec, err := Load(path)
	require.NoError(t, err, "failed to load tukey-range.yaml")

	// THEN validation passes
	require.NoError(t, spec.Validate(), "validation failed")

	// THEN four size-6 groups share the same null distribution
	require.Len(t, spec.Groups, 4)
	for _, g := range spec.Groups {
		assert.Equal(t, 6, g.Size)
		assert.Equal(t, "normal", g.Distribution)
	}

	// THEN the statistic is the studentized range
	assert.Equal(t, "studentized_range", spec.Statistic.Name)

	// THEN the report includes the 0.95 quantile
	require.NotNil(t, spec.Report)
	assert.Contains(t, spec.Report.Quantiles, 0.95)

	// THEN the document builds into a valid engine config
	_, err = spec.Build()
	require.NoError(t, err, "build failed")
}

// TestExampleDocs_CoinFlip_RunBehavior verifies that the coin-flip
// document produces the documented tail probability end to end.
func TestExampleDocs_CoinFlip_RunBehavior(t *testing.T) {
	// GIVEN the built coin-flip.yaml config
	path := filepath.Join("..", "..", "examples", "coin-flip.yaml")
	spec, err := Load(path)
	require.NoError(t, err)
	cfg, err := spec.Build()
	require.NoError(t, err)

	// WHEN running the experiment
	rs, err := mc.Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, spec.Trials, rs.Len())

	// THEN the at-least-8 proportion lands near the exact 56/1024
	sum, err := summary.New(rs)
	require.NoError(t, err)
	got, err := sum.Proportion(spec.Report.Threshold.Value, summary.AtLeast)
	require.NoError(t, err)
	assert.InDelta(t, 0.0547, got, 0.03, "tail proportion far from exact value")
}
