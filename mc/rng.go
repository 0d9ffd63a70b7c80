package mc

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical configuration MUST
// produce bit-for-bit identical trial results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// Stream returns a freshly seeded RNG for the named sub-stream.
//
// Derivation formula: masterSeed XOR fnv1a64(name). Distinct names yield
// independently seeded streams; the same name always yields a stream that
// replays the same values.
//
// Each call returns a new *rand.Rand, so two callers asking for the same
// name never advance each other's state.
func (k SimulationKey) Stream(name string) *rand.Rand {
	derivedSeed := int64(k) ^ fnv1a64(name)
	return rand.New(rand.NewSource(derivedSeed))
}

// TrialStream returns the RNG sub-stream owned by trial index.
// Streams attach to trial indices, not to workers or execution order, which
// is what makes results identical across worker counts.
func (k SimulationKey) TrialStream(index int) *rand.Rand {
	return k.Stream(trialStreamName(index))
}

// trialStreamName returns the sub-stream name for trial index.
func trialStreamName(index int) string {
	return fmt.Sprintf("trial_%d", index)
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
