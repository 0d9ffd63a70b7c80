package mc

import (
	"context"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Run executes cfg and collects the ResultSet.
//
// Determinism: trial i always draws from the sub-stream TrialStream(i) of
// the config seed, so two runs with the same seed and configuration produce
// identical Trials for any worker count and any scheduling order.
//
// On context cancellation Run stops dispatching, waits for in-flight trials,
// and returns the completed trials ordered by index with Partial set,
// together with the context error.
func Run(ctx context.Context, cfg Config) (*ResultSet, error) {
	bound, err := cfg.compile()
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > cfg.Trials {
		workers = cfg.Trials
	}

	key := NewSimulationKey(cfg.Seed)
	rs := &ResultSet{
		RunID:     uuid.NewString(),
		Seed:      cfg.Seed,
		Requested: cfg.Trials,
	}

	logrus.Infof("run %s: %d trials over %d groups (seed %d, %d workers)",
		rs.RunID, cfg.Trials, len(bound), cfg.Seed, workers)

	results := make([]Trial, cfg.Trials)
	completed := make([]bool, cfg.Trials)

	// Workers write disjoint slots; the WaitGroup publishes them to the
	// collector below.
	execute := func(i int) {
		results[i] = runTrial(bound, cfg.Statistic, i, key.TrialStream(i), cfg.DiscardSamples)
		completed[i] = true
		if results[i].Failed() {
			logrus.Debugf("run %s: trial %d failed: %v", rs.RunID, i, results[i].Err)
		}
	}

	cancelled := false
	if workers == 1 {
		for i := 0; i < cfg.Trials && !cancelled; i++ {
			select {
			case <-ctx.Done():
				cancelled = true
			default:
				execute(i)
			}
		}
	} else {
		tasks := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range tasks {
					execute(i)
				}
			}()
		}
	dispatch:
		for i := 0; i < cfg.Trials; i++ {
			select {
			case <-ctx.Done():
				cancelled = true
				break dispatch
			case tasks <- i:
			}
		}
		close(tasks)
		wg.Wait()
	}

	if cancelled {
		for i := range results {
			if completed[i] {
				rs.Trials = append(rs.Trials, results[i])
			}
		}
		rs.Partial = true
		logrus.Warnf("run %s: terminated early, %d of %d trials completed",
			rs.RunID, len(rs.Trials), cfg.Trials)
		return rs, ctx.Err()
	}

	rs.Trials = results
	logrus.Infof("run %s: complete, %d trials succeeded, %d failed",
		rs.RunID, rs.SuccessCount(), rs.FailureCount())
	return rs, nil
}
