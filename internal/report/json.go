package report

import (
	"github.com/banshee-data/camqa/internal/config"
	"github.com/banshee-data/camqa/internal/gates"
	"github.com/banshee-data/camqa/internal/scenario"
)

// Document is the structured JSON report shape, mirroring the console
// and Markdown renderers' content so all three surfaces agree.
type Document struct {
	Manifest       string          `json:"manifest"`
	GateMode       string          `json:"gateMode"`
	PassRateTarget float64         `json:"passRateTarget"`
	Summary        SummaryDocument `json:"summary"`
	Scenarios      []ScenarioDoc   `json:"scenarios"`
}

// SummaryDocument is the report's aggregate counts.
type SummaryDocument struct {
	Total       int      `json:"total"`
	Evaluated   int      `json:"evaluated"`
	Skipped     int      `json:"skipped"`
	GateChecked int      `json:"gateChecked"`
	GatePassed  int      `json:"gatePassed"`
	PassRate    *float64 `json:"passRate"`
}

// ScenarioDoc is one scenario's entry in the JSON report.
type ScenarioDoc struct {
	ScenarioID  string                  `json:"scenarioId"`
	Status      string                  `json:"status"`
	Metrics     map[string]*float64     `json:"metrics"`
	GateResults map[string]gates.Result `json:"gateResults"`
	Verdict     gates.Verdict           `json:"verdict"`
	Notes       []string                `json:"notes"`
}

// BuildDocument assembles the JSON report document for a manifest's
// evaluation batch.
func BuildDocument(evals []scenario.ScenarioEvaluation, gateCfg *config.GateConfig, manifestPath string) Document {
	s := summarize(evals)

	scenarios := make([]ScenarioDoc, 0, len(evals))
	for _, e := range evals {
		scenarios = append(scenarios, ScenarioDoc{
			ScenarioID:  e.ScenarioID,
			Status:      e.Status,
			Metrics:     e.Metrics.AsMap(),
			GateResults: e.GateResults,
			Verdict:     e.Verdict,
			Notes:       e.Notes,
		})
	}

	return Document{
		Manifest:       manifestPath,
		GateMode:       gateCfg.GetMode(),
		PassRateTarget: gateCfg.GetPassRateTarget(),
		Summary: SummaryDocument{
			Total:       s.Total,
			Evaluated:   s.Evaluated,
			Skipped:     s.Skipped,
			GateChecked: s.GateChecked,
			GatePassed:  s.GatePassed,
			PassRate:    s.passRate(),
		},
		Scenarios: scenarios,
	}
}
