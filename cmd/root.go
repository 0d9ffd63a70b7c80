package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/resample-sim/resample-sim/mc"
	"github.com/resample-sim/resample-sim/mc/experiment"
	"github.com/resample-sim/resample-sim/mc/summary"
)

var (
	// CLI flags
	experimentPath string // Path to the experiment YAML document
	logLevel       string // Log verbosity level
	seedOverride   int64  // Overrides the document seed when set
	trialsOverride int    // Overrides the document trial count when set
	workerOverride int    // Overrides the document worker count when set
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "resample-sim",
	Short: "Monte Carlo and resampling experiment runner",
}

// runCmd executes an experiment document and prints its report
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an experiment document",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		spec, err := experiment.Load(experimentPath)
		if err != nil {
			logrus.Fatalf("Could not load experiment: %v", err)
		}
		if cmd.Flags().Changed("seed") {
			spec.Seed = seedOverride
		}
		if cmd.Flags().Changed("trials") {
			spec.Trials = trialsOverride
		}
		if cmd.Flags().Changed("workers") {
			spec.Workers = workerOverride
		}

		cfg, err := spec.Build()
		if err != nil {
			logrus.Fatalf("Could not build experiment: %v", err)
		}

		// Ctrl-C terminates early; completed trials still get reported.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		startTime := time.Now()
		rs, err := mc.Run(ctx, cfg)
		if rs == nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		printReport(spec, rs, time.Since(startTime))
	},
}

// validateCmd checks an experiment document without running it
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate an experiment document without running it",
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := experiment.Load(experimentPath)
		if err != nil {
			logrus.Fatalf("Could not load experiment: %v", err)
		}
		cfg, err := spec.Build()
		if err != nil {
			logrus.Fatalf("Invalid experiment: %v", err)
		}
		fmt.Printf("experiment %q OK: %d groups, statistic %s, %d trials\n",
			spec.Name, len(cfg.Groups), spec.Statistic.Name, cfg.Trials)
	},
}

// printReport writes the run report to stdout.
func printReport(spec *experiment.Spec, rs *mc.ResultSet, elapsed time.Duration) {
	fmt.Printf("==== Experiment: %s ====\n", spec.Name)
	fmt.Printf("Run ID:    %s\n", rs.RunID)
	fmt.Printf("Seed:      %d\n", rs.Seed)
	if rs.Partial {
		fmt.Printf("PARTIAL:   %d of %d trials completed before termination\n", rs.Len(), rs.Requested)
	}
	fmt.Printf("Trials:    %d succeeded, %d failed (%.2fs)\n",
		rs.SuccessCount(), rs.FailureCount(), elapsed.Seconds())

	sum, err := summary.New(rs)
	if err != nil {
		fmt.Printf("No successful trials to summarize: %v\n", err)
		return
	}
	desc, err := sum.Describe()
	if err != nil {
		logrus.Fatalf("Could not summarize run: %v", err)
	}
	fmt.Printf("Statistic: mean=%.6g stddev=%.6g median=%.6g min=%.6g max=%.6g\n",
		desc.Mean, desc.StdDev, desc.Median, desc.Min, desc.Max)

	if spec.Report == nil {
		return
	}
	confidence := spec.Report.Confidence

	if len(spec.Report.Quantiles) > 0 {
		fmt.Printf("---- Quantiles ----\n")
		for _, p := range spec.Report.Quantiles {
			q, err := sum.Quantile(p)
			if err != nil {
				logrus.Fatalf("Could not compute quantile: %v", err)
			}
			fmt.Printf("  q%-6g %.6g\n", p, q)
		}
	}

	if iv, err := sum.CenteredInterval(confidence); err == nil {
		fmt.Printf("Central %.0f%% interval: [%.6g, %.6g]\n", confidence*100, iv.Lower, iv.Upper)
	}

	if t := spec.Report.Threshold; t != nil {
		cmp := summary.Comparator(t.Comparator)
		prop, err := sum.Proportion(t.Value, cmp)
		if err != nil {
			logrus.Fatalf("Could not compute proportion: %v", err)
		}
		iv, err := sum.ProportionCI(t.Value, cmp, confidence)
		if err != nil {
			logrus.Fatalf("Could not compute proportion interval: %v", err)
		}
		fmt.Printf("P(statistic %s %g) = %.4f, %.0f%% CI [%.4f, %.4f]\n",
			t.Comparator, t.Value, prop, confidence*100, iv.Lower, iv.Upper)
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&experimentPath, "experiment", "", "Path to the experiment YAML document")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().Int64Var(&seedOverride, "seed", 0, "Override the document seed")
	runCmd.Flags().IntVar(&trialsOverride, "trials", 0, "Override the document trial count")
	runCmd.Flags().IntVar(&workerOverride, "workers", 0, "Override the document worker count")
	_ = runCmd.MarkFlagRequired("experiment")

	validateCmd.Flags().StringVar(&experimentPath, "experiment", "", "Path to the experiment YAML document")
	_ = validateCmd.MarkFlagRequired("experiment")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}
