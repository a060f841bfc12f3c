package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// snapshot is the golden-file shape: the scenario identity plus the
// observable output of every phase. Counters are excluded on purpose;
// they are asserted separately so a counting change does not churn
// every golden file.
type snapshot struct {
	Scenario string  `json:"scenario"`
	App      string  `json:"app"`
	Phases   []Phase `json:"phases"`
}

// RunWithGolden executes a scenario and compares the phase outputs
// against a golden file in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, sc *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(sc)
	if err != nil {
		return nil, err
	}

	snap := snapshot{
		Scenario: sc.Name,
		App:      sc.App,
		Phases:   result.Phases,
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, sc.Name, raw)

	return result, nil
}
