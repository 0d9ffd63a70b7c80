package experiment

import (
	"fmt"

	"github.com/resample-sim/resample-sim/mc"
	"github.com/resample-sim/resample-sim/mc/dist"
	"github.com/resample-sim/resample-sim/mc/statistic"
)

// Build validates the document and maps it onto a runnable mc.Config.
func (s *Spec) Build() (mc.Config, error) {
	if err := s.Validate(); err != nil {
		return mc.Config{}, fmt.Errorf("invalid experiment %q: %w", s.Name, err)
	}

	stat, err := buildStatistic(s.Statistic)
	if err != nil {
		return mc.Config{}, fmt.Errorf("invalid experiment %q: %w", s.Name, err)
	}

	groups := make([]mc.GroupSpec, len(s.Groups))
	for i, g := range s.Groups {
		groups[i] = mc.GroupSpec{
			Label:        g.Label,
			Size:         g.Size,
			Distribution: g.Distribution,
			Params:       dist.Params(g.Params),
		}
	}

	return mc.Config{
		Groups:         groups,
		Trials:         s.Trials,
		Statistic:      stat,
		Seed:           s.Seed,
		Workers:        s.Workers,
		DiscardSamples: s.DiscardSamples,
	}, nil
}

// buildStatistic maps a statistic name to its constructor.
// Validate has already checked the name and required labels.
func buildStatistic(spec StatisticSpec) (mc.Statistic, error) {
	switch spec.Name {
	case "sum":
		return statistic.Sum(), nil
	case "mean":
		return statistic.Mean(), nil
	case "median":
		return statistic.Median(), nil
	case "stddev":
		return statistic.StdDev(), nil
	case "group_mean":
		return statistic.GroupMean(spec.A), nil
	case "diff_means":
		return statistic.DiffMeans(spec.A, spec.B), nil
	case "welch_t":
		return statistic.WelchT(spec.A, spec.B), nil
	case "welch_t_pvalue":
		return statistic.WelchTPValue(spec.A, spec.B), nil
	case "rank_sum_pvalue":
		return statistic.RankSumPValue(spec.A, spec.B), nil
	case "mean_range":
		return statistic.MeanRange(), nil
	case "studentized_range":
		return statistic.StudentizedRange(), nil
	default:
		return nil, fmt.Errorf("unknown statistic %q", spec.Name)
	}
}
