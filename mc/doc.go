// Package mc provides a deterministic Monte Carlo and resampling engine.
//
// # Reading Guide
//
// Start with these three files to understand the trial pipeline:
//   - config.go: GroupSpec/Config construction and one-shot validation
//   - trial.go: One trial = draw every group, apply the statistic, record
//   - driver.go: Run, worker pool, and partial-result termination
//
// # Architecture
//
// The mc package owns the run mechanics; the statistics toolbox lives in
// sub-packages:
//   - mc/dist/: Distribution registry, shipped samplers, bootstrap and
//     permutation builders over observed data
//   - mc/statistic/: Per-trial statistic constructors (means, p-values,
//     range statistics)
//   - mc/summary/: Read-only aggregation views (quantiles, exceedance
//     proportions, binomial confidence intervals)
//   - mc/experiment/: YAML experiment documents and the name tables that
//     map them onto a runnable Config
//
// # Determinism
//
// Every source of randomness is an explicit *rand.Rand threaded by the
// caller; there is no global state. A run's SimulationKey derives one
// sub-stream per trial index (rng.go), so a seed pins the full ResultSet
// bit-for-bit regardless of worker count.
//
// # Key Types
//
// The extension points are plain function types:
//   - dist.Builder: validate parameters once, return a Sampler
//   - Statistic: reduce one trial's Sample to a scalar, error = failed trial
package mc
