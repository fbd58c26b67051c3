package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/banshee-data/camqa/internal/config"
	"github.com/banshee-data/camqa/internal/scenario"
)

// PrintConsoleSummary writes a plain-text summary of evals to w, in the
// same three-part shape (header, counts, per-scenario detail) the
// original reporting script produced.
func PrintConsoleSummary(w io.Writer, evals []scenario.ScenarioEvaluation, gateCfg *config.GateConfig) {
	fmt.Fprintln(w, "Camera Animation Quality Report")
	fmt.Fprintln(w, strings.Repeat("=", 32))
	fmt.Fprintf(w, "Gate mode: %s\n", gateCfg.GetMode())

	s := summarize(evals)
	failed := s.GateChecked - s.GatePassed
	fmt.Fprintf(w, "Evaluated: %d | Passed: %d | Failed: %d | Skipped: %d\n", s.Evaluated, s.GatePassed, failed, s.Skipped)

	for _, e := range evals {
		fmt.Fprintf(w, "- %s: %s, gate=%s\n", e.ScenarioID, e.Status, overallGateResult(e.Verdict))
		if e.Status == scenario.StatusEvaluated {
			for _, line := range metricLines(e) {
				fmt.Fprintf(w, "  - %s\n", line)
			}
		}
		if len(e.Notes) > 0 {
			fmt.Fprintf(w, "  - notes: %s\n", strings.Join(e.Notes, "; "))
		}
	}
}

func metricLines(e scenario.ScenarioEvaluation) []string {
	m := e.Metrics.AsMap()
	keys := []string{
		"transition_settling_time_p95_sec",
		"overshoot_ratio_p95",
		"camera_jerk_p95",
		"camera_jerk_p99",
		"cursor_camera_alignment_error_p95",
		"text_readability_retention_score",
	}
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", k, formatMetric(m[k])))
	}
	return lines
}
