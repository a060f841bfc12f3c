package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/roach88/grifola/internal/harness"
	"github.com/roach88/grifola/internal/stats"
)

// runOutput is the JSON shape of a `run` invocation.
type runOutput struct {
	Scenario string          `json:"scenario"`
	App      string          `json:"app"`
	Phases   []harness.Phase `json:"phases"`
	Counters stats.Counters  `json:"counters"`
}

// traceOutput extends runOutput with the recorded event tally.
type traceOutput struct {
	runOutput
	RunID  int64          `json:"run_id"`
	Events map[string]int `json:"events"`
}

func writeResult(w io.Writer, format string, sc *harness.Scenario, result *harness.Result) error {
	out := runOutput{
		Scenario: sc.Name,
		App:      sc.App,
		Phases:   result.Phases,
		Counters: result.Counters,
	}
	if format == "json" {
		return writeJSON(w, out)
	}

	writeResultText(w, &out)
	return nil
}

func writeTrace(w io.Writer, format string, sc *harness.Scenario, result *harness.Result, runID int64, events map[string]int) error {
	out := traceOutput{
		runOutput: runOutput{
			Scenario: sc.Name,
			App:      sc.App,
			Phases:   result.Phases,
			Counters: result.Counters,
		},
		RunID:  runID,
		Events: events,
	}
	if format == "json" {
		return writeJSON(w, out)
	}

	writeResultText(w, &out.runOutput)
	fmt.Fprintf(w, "trace run %d:\n", runID)
	kinds := make([]string, 0, len(events))
	for k := range events {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "  %-12s %d\n", k, events[k])
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeResultText(w io.Writer, out *runOutput) {
	fmt.Fprintf(w, "scenario %s (%s)\n", out.Scenario, out.App)
	for i, ph := range out.Phases {
		fmt.Fprintf(w, "phase %d: %s\n", i, phaseString(ph))
	}
	c := out.Counters
	fmt.Fprintf(w, "counters: evaluations=%d hits=%d misses=%d dirtied=%d cleaned=%d evictions=%d destructions=%d\n",
		c.Evaluations, c.MemoHits, c.MemoMisses, c.Dirtied, c.Cleaned, c.Evictions, c.Destructions)
}

func phaseString(ph harness.Phase) string {
	switch {
	case ph.Dist != nil:
		return fmt.Sprintf("dist² = %g", *ph.Dist)
	case ph.Points != nil:
		parts := make([]string, len(ph.Points))
		for i, p := range ph.Points {
			parts[i] = fmt.Sprintf("(%g,%g)", p.X, p.Y)
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return fmt.Sprintf("%v", ph.Ints)
	}
}
