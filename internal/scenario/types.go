// Package scenario loads scenario manifests and project descriptions from
// disk, and orchestrates the camera/dynamics/episodes/metrics/gates
// pipeline over each ready scenario.
package scenario

import (
	"github.com/banshee-data/camqa/internal/camera"
	"github.com/banshee-data/camqa/internal/dynamics"
	"github.com/banshee-data/camqa/internal/gates"
	"github.com/banshee-data/camqa/internal/metrics"
)

// Manifest is the top-level scenario manifest document.
type Manifest struct {
	Scenarios []ManifestEntry `json:"scenarios"`
}

// ManifestEntry describes one scenario package to evaluate.
type ManifestEntry struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	ProjectPath string `json:"projectPath"`
}

// StatusReady is the only manifest entry status that is evaluated.
const StatusReady = "ready"

// Project is the structured project description read from a scenario
// package's project file.
type Project struct {
	Timeline           camera.Timeline            `json:"timeline"`
	Media              Media                      `json:"media"`
	FrameAnalysisCache []metrics.FrameAnalysisItem `json:"frameAnalysisCache"`
	Interop            Interop                    `json:"interop"`
}

// Media carries the fallback duration used when timeline.duration is
// absent.
type Media struct {
	Duration float64 `json:"duration"`
}

// Interop locates the recording metadata and event-stream files relative
// to the scenario package root.
type Interop struct {
	RecordingMetadataPath string         `json:"recordingMetadataPath"`
	Streams               InteropStreams `json:"streams"`
}

// InteropStreams names the per-stream file paths, relative to the
// scenario package root.
type InteropStreams struct {
	MouseMoves string `json:"mouseMoves"`
}

const (
	defaultRecordingMetadataPath = "recording/metadata.json"
	defaultMouseMovesPath        = "recording/mousemoves-0.json"
)

// Duration resolves timeline.duration, falling back to media.duration
// only when timeline.duration is absent (an explicit zero is honored,
// not treated as missing).
func (p *Project) Duration() float64 {
	if p.Timeline.Duration != nil {
		return *p.Timeline.Duration
	}
	return p.Media.Duration
}

// RecordingMetadataPath resolves the recording metadata path, applying
// the documented default when the project leaves it unset.
func (p *Project) RecordingMetadataPath() string {
	if p.Interop.RecordingMetadataPath == "" {
		return defaultRecordingMetadataPath
	}
	return p.Interop.RecordingMetadataPath
}

// MouseMovesPath resolves the mouse-move stream path, applying the
// documented default when the project leaves it unset.
func (p *Project) MouseMovesPath() string {
	if p.Interop.Streams.MouseMoves == "" {
		return defaultMouseMovesPath
	}
	return p.Interop.Streams.MouseMoves
}

// RecordingMetadata is the recording's display geometry and process-time
// origin, used to normalize the raw mouse-move stream.
type RecordingMetadata struct {
	Display            DisplaySize `json:"display"`
	ProcessTimeStartMs float64     `json:"processTimeStartMs"`
}

// DisplaySize is the recorded screen's pixel dimensions.
type DisplaySize struct {
	WidthPx  float64 `json:"widthPx"`
	HeightPx float64 `json:"heightPx"`
}

// MouseMoveEvent is one raw cursor sample, in device pixels and absolute
// process time.
type MouseMoveEvent struct {
	ProcessTimeMs float64 `json:"processTimeMs"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
}

// ScenarioEvaluation is the aggregate result of evaluating one scenario.
type ScenarioEvaluation struct {
	ScenarioID  string
	Status      string
	Metrics     metrics.Metrics
	Dynamics    []dynamics.Sample
	GateResults map[string]gates.Result
	Verdict     gates.Verdict
	Notes       []string
}

// Evaluation status values.
const (
	StatusEvaluated = "evaluated"
	StatusSkipped   = "skipped"
)

func skippedEvaluation(id, note string) ScenarioEvaluation {
	return ScenarioEvaluation{
		ScenarioID:  id,
		Status:      StatusSkipped,
		GateResults: map[string]gates.Result{},
		Verdict:     gates.VerdictUndetermined,
		Notes:       []string{note},
	}
}
