package scenario

import (
	"encoding/json"
	"testing"

	"github.com/banshee-data/camqa/internal/fsutil"
	"github.com/banshee-data/camqa/internal/gates"
	"github.com/banshee-data/camqa/internal/testutil"
)

func writeJSON(t *testing.T, fs fsutil.FileSystem, path string, v interface{}) {
	t.Helper()
	data, err := json.Marshal(v)
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, fs.WriteFile(path, data, 0o644))
}

func TestLoadManifest(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	writeJSON(t, fs, "manifest.json", Manifest{
		Scenarios: []ManifestEntry{
			{ID: "s1", Status: "ready", ProjectPath: "s1/project.json"},
		},
	})

	m, err := LoadManifest(fs, "manifest.json")
	testutil.AssertNoError(t, err)
	if len(m.Scenarios) != 1 || m.Scenarios[0].ID != "s1" {
		t.Errorf("manifest = %+v, want one scenario s1", m)
	}
}

func TestLoadProject_RejectsPathTraversal(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	_, _, err := LoadProject(fs, "/scenarios", "../outside/project.json")
	testutil.AssertError(t, err)
}

func TestEvaluator_SkipsNotReady(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	ev := &Evaluator{FS: fs, SampleRate: 60, GateTable: gates.Table{}}

	result := ev.Evaluate(ManifestEntry{ID: "s1", Status: "archived"}, "/scenarios/s1")
	if result.Status != StatusSkipped {
		t.Errorf("Status = %q, want skipped", result.Status)
	}
	if len(result.Notes) != 1 || result.Notes[0] != "Scenario status is not ready" {
		t.Errorf("Notes = %v, want exactly one ready-status note", result.Notes)
	}
	if result.Verdict != gates.VerdictUndetermined {
		t.Errorf("Verdict = %q, want undetermined", result.Verdict)
	}
}

func TestEvaluator_SkipsMissingProject(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	ev := &Evaluator{FS: fs, SampleRate: 60, GateTable: gates.Table{}}

	result := ev.Evaluate(ManifestEntry{ID: "s1", Status: "ready", ProjectPath: "/scenarios/s1/project.json"}, "/scenarios/s1")
	if result.Status != StatusSkipped {
		t.Errorf("Status = %q, want skipped", result.Status)
	}
}

func TestEvaluator_EmptyTimelineProducesUndeterminedVerdict(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	writeJSON(t, fs, "/scenarios/s1/project.json", map[string]interface{}{
		"timeline": map[string]interface{}{"duration": 0},
	})

	ev := &Evaluator{FS: fs, SampleRate: 60, GateTable: gates.Table{
		"camera_jerk_p95": {Operator: gates.LessThanOrEqual, Threshold: 20},
	}}
	result := ev.Evaluate(ManifestEntry{ID: "s1", Status: "ready", ProjectPath: "project.json"}, "/scenarios/s1")

	if result.Status != StatusEvaluated {
		t.Fatalf("Status = %q, want evaluated", result.Status)
	}
	if result.Verdict != gates.VerdictUndetermined {
		t.Errorf("Verdict = %q, want undetermined", result.Verdict)
	}
	if result.Metrics.CameraJerkP95 != nil {
		t.Errorf("CameraJerkP95 = %v, want nil", *result.Metrics.CameraJerkP95)
	}
	found := false
	for _, n := range result.Notes {
		if n == "Timeline duration is missing or zero" {
			found = true
		}
	}
	if !found {
		t.Errorf("Notes = %v, want zero-duration note", result.Notes)
	}
}

func TestEvaluator_MissingCursorStreamsNotesMetricSkipped(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	writeJSON(t, fs, "/scenarios/s1/project.json", map[string]interface{}{
		"timeline": map[string]interface{}{
			"duration": 3,
			"tracks": []map[string]interface{}{
				{
					"type": "transform",
					"data": map[string]interface{}{
						"segments": []map[string]interface{}{
							{
								"startTime": 0, "endTime": 3,
								"startTransform": map[string]interface{}{"center": map[string]interface{}{"x": 0.5, "y": 0.5}, "zoom": 1.0},
								"endTransform":   map[string]interface{}{"center": map[string]interface{}{"x": 0.5, "y": 0.5}, "zoom": 1.0},
							},
						},
					},
				},
			},
		},
	})

	ev := &Evaluator{FS: fs, SampleRate: 60, GateTable: gates.Table{}}
	result := ev.Evaluate(ManifestEntry{ID: "s1", Status: "ready", ProjectPath: "project.json"}, "/scenarios/s1")

	if result.Metrics.CursorCameraAlignmentErrorP95 != nil {
		t.Errorf("CursorCameraAlignmentErrorP95 = %v, want nil", *result.Metrics.CursorCameraAlignmentErrorP95)
	}
	found := false
	for _, n := range result.Notes {
		if n == "Cursor streams not found; cursor alignment metric skipped" {
			found = true
		}
	}
	if !found {
		t.Errorf("Notes = %v, want cursor-streams-not-found note", result.Notes)
	}
}

func TestEvaluator_ContinuousTransformPreferenceNote(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	writeJSON(t, fs, "/scenarios/s1/project.json", map[string]interface{}{
		"timeline": map[string]interface{}{
			"duration": 1,
			"continuousTransforms": []map[string]interface{}{
				{"time": 0, "transform": map[string]interface{}{"center": map[string]interface{}{"x": 0.5, "y": 0.5}, "zoom": 1.0}},
				{"time": 1, "transform": map[string]interface{}{"center": map[string]interface{}{"x": 0.6, "y": 0.5}, "zoom": 1.0}},
			},
			"tracks": []map[string]interface{}{
				{"type": "transform", "data": map[string]interface{}{"segments": []map[string]interface{}{}}},
			},
		},
	})

	ev := &Evaluator{FS: fs, SampleRate: 60, GateTable: gates.Table{}}
	result := ev.Evaluate(ManifestEntry{ID: "s1", Status: "ready", ProjectPath: "project.json"}, "/scenarios/s1")

	found := false
	for _, n := range result.Notes {
		if n == "Camera sampled from timeline.continuousTransforms" {
			found = true
		}
	}
	if !found {
		t.Errorf("Notes = %v, want continuous-transform-preference note", result.Notes)
	}
}

func TestEvaluator_UnsupportedOperatorOnNilMetricIsInsufficientData(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	writeJSON(t, fs, "/scenarios/s1/project.json", map[string]interface{}{
		"timeline": map[string]interface{}{"duration": 1},
	})

	ev := &Evaluator{FS: fs, SampleRate: 60, GateTable: gates.Table{
		"camera_jerk_p95": {Operator: "~=", Threshold: 1},
	}}
	result := ev.Evaluate(ManifestEntry{ID: "s1", Status: "ready", ProjectPath: "project.json"}, "/scenarios/s1")

	// camera_jerk_p95 is nil (insufficient data) for a near-empty trajectory,
	// so the unsupported-operator branch is never reached; gate evaluation
	// should instead report insufficient_data without a config error note.
	if result.GateResults["camera_jerk_p95"] != gates.ResultInsufficientData {
		t.Errorf("GateResults[camera_jerk_p95] = %v, want insufficient_data", result.GateResults["camera_jerk_p95"])
	}
}

func TestNormalizeCursorStream_ClampsOutOfBoundsToUnitRange(t *testing.T) {
	meta := RecordingMetadata{Display: DisplaySize{WidthPx: 100, HeightPx: 100}}
	events := []MouseMoveEvent{
		{ProcessTimeMs: 0, X: -10, Y: -10},
		{ProcessTimeMs: 1, X: 110, Y: 110},
	}
	samples := normalizeCursorStream(events, meta)
	if len(samples) != 2 {
		t.Fatalf("len(samples) = %d, want 2", len(samples))
	}
	if samples[0].NX != 0 || samples[0].NY != 1 {
		t.Errorf("samples[0] = %+v, want NX=0 NY=1", samples[0])
	}
	if samples[1].NX != 1 || samples[1].NY != 0 {
		t.Errorf("samples[1] = %+v, want NX=1 NY=0", samples[1])
	}
}

func TestEvaluateAll_PreservesOrderAndCount(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	entries := make([]ManifestEntry, 0, 5)
	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		entries = append(entries, ManifestEntry{ID: id, Status: "archived"})
	}

	ev := &Evaluator{FS: fs, SampleRate: 60, GateTable: gates.Table{}}
	results := ev.EvaluateAll(entries, "/scenarios", 3)

	if len(results) != len(entries) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(entries))
	}
	for i, r := range results {
		if r.ScenarioID != entries[i].ID {
			t.Errorf("results[%d].ScenarioID = %q, want %q", i, r.ScenarioID, entries[i].ID)
		}
	}
}
