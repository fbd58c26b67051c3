// Package report renders a batch of scenario evaluations as a console
// summary, a Markdown table, a structured JSON document, and optional
// PNG/HTML diagnostic charts.
package report

import (
	"fmt"

	"github.com/banshee-data/camqa/internal/gates"
	"github.com/banshee-data/camqa/internal/scenario"
)

// formatMetric renders a nullable metric value the way the scenario
// driver's console and Markdown outputs do: "n/a" for null, otherwise a
// precision that scales with magnitude so both small alignment errors
// and larger settling times stay readable.
func formatMetric(v *float64) string {
	if v == nil {
		return "n/a"
	}
	abs := *v
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 100:
		return fmt.Sprintf("%.2f", *v)
	case abs >= 10:
		return fmt.Sprintf("%.3f", *v)
	default:
		return fmt.Sprintf("%.4f", *v)
	}
}

// overallGateResult summarizes a scenario's gate verdict as a single
// word, the same three-way outcome the CLI and JSON report both use.
func overallGateResult(verdict gates.Verdict) string {
	switch verdict {
	case gates.VerdictPass:
		return "pass"
	case gates.VerdictFail:
		return "fail"
	default:
		return "n/a"
	}
}

// summary holds the pass/fail/skip counts shared by the console and JSON
// renderers.
type summary struct {
	Total       int
	Evaluated   int
	Skipped     int
	GateChecked int
	GatePassed  int
}

func summarize(evals []scenario.ScenarioEvaluation) summary {
	s := summary{Total: len(evals)}
	for _, e := range evals {
		if e.Status != scenario.StatusEvaluated {
			s.Skipped++
			continue
		}
		s.Evaluated++
		if e.Verdict == gates.VerdictPass || e.Verdict == gates.VerdictFail {
			s.GateChecked++
			if e.Verdict == gates.VerdictPass {
				s.GatePassed++
			}
		}
	}
	return s
}

// passRate returns gatePassed/gateChecked, or nil if no scenario was
// gate-checked.
func (s summary) passRate() *float64 {
	if s.GateChecked == 0 {
		return nil
	}
	r := float64(s.GatePassed) / float64(s.GateChecked)
	return &r
}
