package report

import (
	"fmt"
	"strings"

	"github.com/banshee-data/camqa/internal/config"
	"github.com/banshee-data/camqa/internal/scenario"
)

var markdownHeaders = []string{
	"Scenario", "Status",
	"Settling p95 (s)", "Overshoot p95", "Jerk p95", "Jerk p99",
	"Cursor Align p95", "Readability", "Gate",
}

// ToMarkdown renders evals as a Markdown document: a header block with
// the gate mode and generation timestamp, followed by one summary table
// row per scenario.
func ToMarkdown(evals []scenario.ScenarioEvaluation, gateCfg *config.GateConfig, generatedAt string) string {
	var b strings.Builder

	b.WriteString("# Camera Animation Quality Report\n\n")
	fmt.Fprintf(&b, "- Generated at: `%s`\n", generatedAt)
	fmt.Fprintf(&b, "- Gate mode: `%s`\n\n", gateCfg.GetMode())

	b.WriteString("| " + strings.Join(markdownHeaders, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("---|", len(markdownHeaders)) + "\n")

	for _, e := range evals {
		m := e.Metrics.AsMap()
		row := []string{
			e.ScenarioID,
			e.Status,
			formatMetric(m["transition_settling_time_p95_sec"]),
			formatMetric(m["overshoot_ratio_p95"]),
			formatMetric(m["camera_jerk_p95"]),
			formatMetric(m["camera_jerk_p99"]),
			formatMetric(m["cursor_camera_alignment_error_p95"]),
			formatMetric(m["text_readability_retention_score"]),
			overallGateResult(e.Verdict),
		}
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}

	return b.String()
}
