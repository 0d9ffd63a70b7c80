package mc

// ResultSet is the ordered outcome of a simulation run.
//
// Completed runs hold exactly Requested trials. A run terminated early
// (context cancellation) holds the trials that finished before termination,
// still ordered by index, with Partial set. Failed trials are recorded in
// place, never dropped, so Requested == SuccessCount + FailureCount for
// every completed run.
type ResultSet struct {
	RunID     string // unique per run; not covered by seed reproducibility
	Seed      int64
	Requested int
	Trials    []Trial
	Partial   bool
}

// Len returns the number of recorded trials.
func (rs *ResultSet) Len() int {
	return len(rs.Trials)
}

// Values returns the statistic values of successful trials in trial order.
func (rs *ResultSet) Values() []float64 {
	out := make([]float64, 0, len(rs.Trials))
	for _, t := range rs.Trials {
		if !t.Failed() {
			out = append(out, t.Value)
		}
	}
	return out
}

// SuccessCount returns how many recorded trials succeeded.
func (rs *ResultSet) SuccessCount() int {
	count := 0
	for _, t := range rs.Trials {
		if !t.Failed() {
			count++
		}
	}
	return count
}

// FailureCount returns how many recorded trials failed.
func (rs *ResultSet) FailureCount() int {
	return len(rs.Trials) - rs.SuccessCount()
}

// Failures returns the failed trials in trial order.
func (rs *ResultSet) Failures() []Trial {
	out := make([]Trial, 0)
	for _, t := range rs.Trials {
		if t.Failed() {
			out = append(out, t)
		}
	}
	return out
}
