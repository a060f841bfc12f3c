package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertPhaseInts asserts the int output of one phase.
func AssertPhaseInts(t *testing.T, result *Result, phase int, want []int) {
	t.Helper()
	if !assert.Less(t, phase, len(result.Phases), "phase %d missing", phase) {
		return
	}
	assert.Equal(t, want, result.Phases[phase].Ints, "phase %d", phase)
}

// AssertDist asserts the distance output of one phase.
func AssertDist(t *testing.T, result *Result, phase int, want float64) {
	t.Helper()
	if !assert.Less(t, phase, len(result.Phases), "phase %d missing", phase) {
		return
	}
	if assert.NotNil(t, result.Phases[phase].Dist, "phase %d has no distance", phase) {
		assert.Equal(t, want, *result.Phases[phase].Dist, "phase %d", phase)
	}
}

// AssertIncremental asserts that the run's total evaluations stayed
// under a bound. This is the harness-level incrementality witness:
// a mutation that re-ran everything blows the budget.
func AssertIncremental(t *testing.T, result *Result, maxEvaluations uint64) {
	t.Helper()
	assert.LessOrEqual(t, result.Counters.Evaluations, maxEvaluations,
		"evaluations exceeded the incrementality budget")
}
