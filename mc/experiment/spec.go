// Package experiment loads declarative experiment documents and turns them
// into runnable engine configs.
//
// A document names groups, a statistic, and a report; names resolve through
// fixed tables to callables registered ahead of time. Nothing in a document
// is ever interpreted as code. Documents resolve distributions against the
// shipped builtins; data-bound distributions (dist.Resample, dist.Permute)
// are registered programmatically and are not reachable from YAML.
package experiment

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Spec is the top-level experiment document.
// Loaded from YAML via Load(path).
type Spec struct {
	Name           string        `yaml:"name"`
	Seed           int64         `yaml:"seed"`
	Trials         int           `yaml:"trials"`
	Workers        int           `yaml:"workers,omitempty"`
	DiscardSamples bool          `yaml:"discard_samples,omitempty"`
	Groups         []GroupSpec   `yaml:"groups"`
	Statistic      StatisticSpec `yaml:"statistic"`
	Report         *ReportSpec   `yaml:"report,omitempty"`
}

// GroupSpec declares one labeled group of draws per trial.
type GroupSpec struct {
	Label        string             `yaml:"label"`
	Size         int                `yaml:"size"`
	Distribution string             `yaml:"distribution"`
	Params       map[string]float64 `yaml:"params,omitempty"`
}

// StatisticSpec names the per-trial statistic. Two-group statistics
// (diff_means, welch_t, welch_t_pvalue, rank_sum_pvalue) compare groups a
// and b; group_mean reads group a.
type StatisticSpec struct {
	Name string `yaml:"name"`
	A    string `yaml:"a,omitempty"`
	B    string `yaml:"b,omitempty"`
}

// ReportSpec selects which aggregations the run report prints.
type ReportSpec struct {
	Quantiles  []float64      `yaml:"quantiles,omitempty"`
	Threshold  *ThresholdSpec `yaml:"threshold,omitempty"`
	Confidence float64        `yaml:"confidence,omitempty"`
}

// ThresholdSpec is an exceedance query against the statistic distribution.
type ThresholdSpec struct {
	Value      float64 `yaml:"value"`
	Comparator string  `yaml:"comparator"`
}

// DefaultConfidence is used when a report omits its confidence level.
const DefaultConfidence = 0.95

// Valid value registries.
var (
	validStatistics = map[string]bool{
		"sum": true, "mean": true, "median": true, "stddev": true,
		"group_mean": true, "diff_means": true,
		"welch_t": true, "welch_t_pvalue": true, "rank_sum_pvalue": true,
		"mean_range": true, "studentized_range": true,
	}
	validComparators = map[string]bool{
		"above": true, "at_least": true, "below": true, "at_most": true,
	}
	twoGroupStatistics = map[string]bool{
		"diff_means": true, "welch_t": true, "welch_t_pvalue": true, "rank_sum_pvalue": true,
	}
)

// Load reads and parses a YAML experiment document.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading experiment: %w", err)
	}
	var spec Spec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing experiment: %w", err)
	}
	spec.applyDefaults()
	return &spec, nil
}

// applyDefaults fills report defaults in-place. Idempotent.
func (s *Spec) applyDefaults() {
	if s.Report != nil && s.Report.Confidence == 0 {
		s.Report.Confidence = DefaultConfidence
	}
}

// Validate checks that all fields in the document are valid.
// Engine-level validation (parameter schemas, duplicate labels) happens
// again in mc.Config; this pass catches document mistakes with
// field-path context.
func (s *Spec) Validate() error {
	if s.Trials <= 0 {
		return fmt.Errorf("trials must be positive, got %d", s.Trials)
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", s.Workers)
	}
	if len(s.Groups) == 0 {
		return fmt.Errorf("at least one group required")
	}
	for i, g := range s.Groups {
		if err := validateGroup(&g, i); err != nil {
			return err
		}
	}
	if err := s.validateStatistic(); err != nil {
		return err
	}
	if s.Report != nil {
		if err := validateReport(s.Report); err != nil {
			return err
		}
	}
	return nil
}

func validateGroup(g *GroupSpec, idx int) error {
	prefix := fmt.Sprintf("group[%d]", idx)
	if g.Label == "" {
		return fmt.Errorf("%s: label is required", prefix)
	}
	if g.Size <= 0 {
		return fmt.Errorf("%s: size must be positive, got %d", prefix, g.Size)
	}
	if g.Distribution == "" {
		return fmt.Errorf("%s: distribution is required", prefix)
	}
	for name, val := range g.Params {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("%s.params.%s must be a finite number, got %f", prefix, name, val)
		}
	}
	return nil
}

func (s *Spec) validateStatistic() error {
	if !validStatistics[s.Statistic.Name] {
		return fmt.Errorf("unknown statistic %q; valid: sum, mean, median, stddev, group_mean, diff_means, welch_t, welch_t_pvalue, rank_sum_pvalue, mean_range, studentized_range",
			s.Statistic.Name)
	}
	labels := make(map[string]bool, len(s.Groups))
	for _, g := range s.Groups {
		labels[g.Label] = true
	}
	if s.Statistic.Name == "group_mean" {
		if s.Statistic.A == "" {
			return fmt.Errorf("statistic group_mean requires field a (group label)")
		}
		if !labels[s.Statistic.A] {
			return fmt.Errorf("statistic group_mean: no group labeled %q", s.Statistic.A)
		}
	}
	if twoGroupStatistics[s.Statistic.Name] {
		if s.Statistic.A == "" || s.Statistic.B == "" {
			return fmt.Errorf("statistic %s requires fields a and b (group labels)", s.Statistic.Name)
		}
		for _, label := range []string{s.Statistic.A, s.Statistic.B} {
			if !labels[label] {
				return fmt.Errorf("statistic %s: no group labeled %q", s.Statistic.Name, label)
			}
		}
	}
	return nil
}

func validateReport(r *ReportSpec) error {
	for i, q := range r.Quantiles {
		if math.IsNaN(q) || q < 0 || q > 1 {
			return fmt.Errorf("report.quantiles[%d] must be in [0, 1], got %f", i, q)
		}
	}
	if r.Threshold != nil && !validComparators[r.Threshold.Comparator] {
		return fmt.Errorf("report.threshold: unknown comparator %q; valid: above, at_least, below, at_most",
			r.Threshold.Comparator)
	}
	if math.IsNaN(r.Confidence) || r.Confidence <= 0 || r.Confidence >= 1 {
		return fmt.Errorf("report.confidence must be in (0, 1), got %f", r.Confidence)
	}
	return nil
}
