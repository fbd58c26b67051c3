// Command camqa evaluates a batch of generated-camera-animation scenarios
// against the configured quality gates and renders the results as a
// console summary, and optionally Markdown, JSON, PNG, and HTML reports.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/camqa/internal/config"
	"github.com/banshee-data/camqa/internal/fsutil"
	"github.com/banshee-data/camqa/internal/gates"
	"github.com/banshee-data/camqa/internal/report"
	"github.com/banshee-data/camqa/internal/scenario"
	"github.com/banshee-data/camqa/internal/store"
)

var (
	manifestPath   = flag.String("manifest", "manifest.json", "Path to the scenario manifest")
	gateConfigPath = flag.String("gate-config", "", "Path to the gate configuration (optional)")
	sampleRate     = flag.Float64("sample-rate", 60.0, "Camera trajectory sampling rate, in Hz")
	concurrency    = flag.Int("concurrency", 0, "Scenario evaluation concurrency (0 = runtime.NumCPU())")
	enforceGates   = flag.Bool("gate", false, "Exit with status 2 when any evaluated scenario fails its gate")
	outputJSON     = flag.String("json", "", "Path to write the JSON report (optional)")
	outputMarkdown = flag.String("markdown", "", "Path to write the Markdown report (optional)")
	chartDir       = flag.String("chart-dir", "", "Directory to write per-scenario PNG and HTML dynamics charts (optional)")
	storePath      = flag.String("store", "", "Path to a SQLite database to record run history (optional)")
)

func main() {
	flag.Parse()

	if *manifestPath == "" {
		log.Fatal("manifest path is required")
	}

	gateCfg := &config.GateConfig{}
	if *gateConfigPath != "" {
		loaded, err := config.LoadGateConfig(*gateConfigPath)
		if err != nil {
			log.Fatalf("failed to load gate config: %v", err)
		}
		gateCfg = loaded
	}

	rate := *sampleRate
	if rate <= 0 {
		log.Fatalf("sample rate must be positive, got %v", rate)
	}

	workers := *concurrency
	if workers <= 0 {
		workers = (&config.RunConfig{}).GetConcurrency()
	}

	fs := fsutil.OSFileSystem{}
	manifest, err := scenario.LoadManifest(fs, *manifestPath)
	if err != nil {
		log.Fatalf("failed to load manifest: %v", err)
	}

	ev := &scenario.Evaluator{FS: fs, SampleRate: rate, GateTable: gateCfg.GetMetricGates()}
	manifestRoot := filepath.Dir(*manifestPath)
	evals := ev.EvaluateAll(manifest.Scenarios, manifestRoot, workers)

	report.PrintConsoleSummary(os.Stdout, evals, gateCfg)

	if *outputJSON != "" {
		if err := writeJSONReport(evals, gateCfg, *manifestPath, *outputJSON); err != nil {
			log.Fatalf("failed to write JSON report: %v", err)
		}
		log.Printf("wrote JSON report to %s", *outputJSON)
	}

	if *outputMarkdown != "" {
		md := report.ToMarkdown(evals, gateCfg, time.Now().UTC().Format(time.RFC3339))
		if err := os.WriteFile(*outputMarkdown, []byte(md), 0o644); err != nil {
			log.Fatalf("failed to write Markdown report: %v", err)
		}
		log.Printf("wrote Markdown report to %s", *outputMarkdown)
	}

	if *chartDir != "" {
		if err := writeCharts(evals, *chartDir); err != nil {
			log.Fatalf("failed to write dynamics charts: %v", err)
		}
	}

	if *storePath != "" {
		if err := recordRuns(evals, *storePath); err != nil {
			log.Fatalf("failed to record run history: %v", err)
		}
	}

	if *enforceGates {
		os.Exit(exitCode(evals))
	}
}

// exitCode returns 2 if any evaluated scenario failed its overall gate
// verdict, 0 otherwise.
func exitCode(evals []scenario.ScenarioEvaluation) int {
	for _, e := range evals {
		if e.Status == scenario.StatusEvaluated && e.Verdict == gates.VerdictFail {
			return 2
		}
	}
	return 0
}

func writeJSONReport(evals []scenario.ScenarioEvaluation, gateCfg *config.GateConfig, manifestPath, path string) error {
	doc := report.BuildDocument(evals, gateCfg, manifestPath)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writeCharts(evals []scenario.ScenarioEvaluation, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, e := range evals {
		if e.Status != scenario.StatusEvaluated || len(e.Dynamics) == 0 {
			continue
		}

		pngPath := filepath.Join(dir, fmt.Sprintf("%s.png", e.ScenarioID))
		if err := report.SaveDynamicsPlot(e.Dynamics, e.ScenarioID, pngPath); err != nil {
			return fmt.Errorf("scenario %s: %w", e.ScenarioID, err)
		}

		htmlPath := filepath.Join(dir, fmt.Sprintf("%s.html", e.ScenarioID))
		f, err := os.Create(htmlPath)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", e.ScenarioID, err)
		}
		err = report.WriteDynamicsChart(f, e.Dynamics, e.ScenarioID)
		closeErr := f.Close()
		if err != nil {
			return fmt.Errorf("scenario %s: %w", e.ScenarioID, err)
		}
		if closeErr != nil {
			return fmt.Errorf("scenario %s: %w", e.ScenarioID, closeErr)
		}
	}
	return nil
}

func recordRuns(evals []scenario.ScenarioEvaluation, path string) error {
	s, err := store.NewStore(path)
	if err != nil {
		return err
	}
	defer s.Close()

	now := time.Now()
	for _, e := range evals {
		if _, err := s.RecordRun(e, now); err != nil {
			return err
		}
	}
	return nil
}
