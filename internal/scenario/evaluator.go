package scenario

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/banshee-data/camqa/internal/camera"
	"github.com/banshee-data/camqa/internal/dynamics"
	"github.com/banshee-data/camqa/internal/episodes"
	"github.com/banshee-data/camqa/internal/fsutil"
	"github.com/banshee-data/camqa/internal/gates"
	"github.com/banshee-data/camqa/internal/metrics"
	"github.com/banshee-data/camqa/internal/monitoring"
)

// Evaluator is the composition root wiring the scenario loader to the
// camera/dynamics/episodes/metrics/gates pipeline. It holds no
// per-scenario state, so a single Evaluator is safe to reuse (and to
// share read-only across a bounded worker pool).
type Evaluator struct {
	FS         fsutil.FileSystem
	SampleRate float64
	GateTable  gates.Table
}

// NewEvaluator constructs an Evaluator backed by the real filesystem.
func NewEvaluator(sampleRate float64, gateTable gates.Table) *Evaluator {
	return &Evaluator{FS: fsutil.OSFileSystem{}, SampleRate: sampleRate, GateTable: gateTable}
}

// Evaluate runs the full pipeline for one manifest entry. manifestRoot is
// the directory entry.ProjectPath is resolved and bounds-checked against.
func (ev *Evaluator) Evaluate(entry ManifestEntry, manifestRoot string) ScenarioEvaluation {
	if entry.Status != StatusReady {
		return skippedEvaluation(entry.ID, "Scenario status is not ready")
	}

	project, resolvedPath, err := LoadProject(ev.FS, manifestRoot, entry.ProjectPath)
	if err != nil {
		monitoring.Logf("scenario %s: failed to load project: %v", entry.ID, err)
		return skippedEvaluation(entry.ID, "Project description file absent")
	}

	packageRoot := filepath.Dir(resolvedPath)
	return ev.evaluateProject(entry.ID, packageRoot, project)
}

func (ev *Evaluator) evaluateProject(scenarioID, packageRoot string, project *Project) ScenarioEvaluation {
	var notes []string

	build := camera.Build(project.Timeline, project.Duration(), ev.SampleRate)
	notes = append(notes, build.Notes...)
	notes = append(notes, fmt.Sprintf("%d camera samples", len(build.Samples)))

	dyn := dynamics.Compute(build.Samples)
	notes = append(notes, fmt.Sprintf("%d dynamics samples", len(dyn)))

	eps := episodes.Detect(build.Samples, dyn, ev.SampleRate)
	if len(eps) == 0 && build.Source == camera.SourceSegments {
		notes = append(notes, "no movement episodes")
	} else {
		notes = append(notes, fmt.Sprintf("%d movement episodes", len(eps)))
	}

	cursor, cursorErr := LoadCursorStream(ev.FS, packageRoot, project)
	if cursorErr != nil {
		if errors.Is(cursorErr, ErrCursorStreamsNotFound) {
			notes = append(notes, "Cursor streams not found; cursor alignment metric skipped")
		} else {
			monitoring.Logf("scenario %s: failed to load cursor stream: %v", scenarioID, cursorErr)
			notes = append(notes, "Cursor streams not found; cursor alignment metric skipped")
		}
		cursor = nil
	} else {
		notes = append(notes, fmt.Sprintf("%d cursor samples loaded", len(cursor)))
	}

	m := metrics.Aggregate(build.Samples, dyn, eps, cursor, project.FrameAnalysisCache, project.Duration())

	results, verdict, gateErr := gates.Evaluate(m.AsMap(), ev.GateTable)
	if gateErr != nil {
		notes = append(notes, fmt.Sprintf("gate configuration error: %v", gateErr))
	}

	return ScenarioEvaluation{
		ScenarioID:  scenarioID,
		Status:      StatusEvaluated,
		Metrics:     m,
		Dynamics:    dyn,
		GateResults: results,
		Verdict:     verdict,
		Notes:       notes,
	}
}

// EvaluateAll evaluates every manifest entry, fanning out across a
// bounded worker pool of size concurrency. manifestRoot is the directory
// manifest-relative project paths are resolved against.
func (ev *Evaluator) EvaluateAll(entries []ManifestEntry, manifestRoot string, concurrency int) []ScenarioEvaluation {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]ScenarioEvaluation, len(entries))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, entry := range entries {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, entry ManifestEntry) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = ev.Evaluate(entry, manifestRoot)
		}(i, entry)
	}

	wg.Wait()
	return results
}
