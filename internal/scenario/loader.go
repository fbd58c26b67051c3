package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/banshee-data/camqa/internal/fsutil"
	"github.com/banshee-data/camqa/internal/metrics"
	"github.com/banshee-data/camqa/internal/security"
)

// ErrCursorStreamsNotFound is returned by LoadCursorStream when a
// scenario package lacks its recording metadata file or its mouse-move
// stream file. It is not fatal: the
// caller degrades the cursor-alignment metric to null and continues.
var ErrCursorStreamsNotFound = errors.New("cursor streams not found")

// LoadManifest reads and parses a scenario manifest file.
func LoadManifest(fs fsutil.FileSystem, path string) (*Manifest, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// LoadProject reads and parses a scenario package's project description.
// projectPath is resolved relative to manifestRoot and validated to
// reject any path that escapes it. Returns the parsed project and its
// resolved absolute path, whose directory is the scenario package root.
func LoadProject(fs fsutil.FileSystem, manifestRoot, projectPath string) (*Project, string, error) {
	resolved := filepath.Join(manifestRoot, projectPath)
	if err := security.ValidatePathWithinDirectory(resolved, manifestRoot); err != nil {
		return nil, "", fmt.Errorf("rejected project path: %w", err)
	}

	data, err := fs.ReadFile(resolved)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read project %s: %w", resolved, err)
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, "", fmt.Errorf("failed to parse project %s: %w", resolved, err)
	}
	return &p, resolved, nil
}

// LoadCursorStream loads and normalizes the recording metadata and
// mouse-move stream for a scenario package, resolving both paths
// relative to packageRoot and rejecting either one if it escapes
// packageRoot. It returns ErrCursorStreamsNotFound when either file is
// absent, which the caller treats as a non-fatal degradation of the
// cursor-alignment metric.
func LoadCursorStream(fs fsutil.FileSystem, packageRoot string, p *Project) ([]metrics.CursorSample, error) {
	metadataPath := filepath.Join(packageRoot, p.RecordingMetadataPath())
	if err := security.ValidatePathWithinDirectory(metadataPath, packageRoot); err != nil {
		return nil, fmt.Errorf("rejected recording metadata path: %w", err)
	}
	if !fs.Exists(metadataPath) {
		return nil, ErrCursorStreamsNotFound
	}

	metaBytes, err := fs.ReadFile(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read recording metadata %s: %w", metadataPath, err)
	}
	var meta RecordingMetadata
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse recording metadata %s: %w", metadataPath, err)
	}

	movesPath := filepath.Join(packageRoot, p.MouseMovesPath())
	if err := security.ValidatePathWithinDirectory(movesPath, packageRoot); err != nil {
		return nil, fmt.Errorf("rejected mouse-move stream path: %w", err)
	}
	if !fs.Exists(movesPath) {
		return nil, ErrCursorStreamsNotFound
	}
	moveBytes, err := fs.ReadFile(movesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read mouse-move stream %s: %w", movesPath, err)
	}
	var events []MouseMoveEvent
	if err := json.Unmarshal(moveBytes, &events); err != nil {
		return nil, fmt.Errorf("failed to parse mouse-move stream %s: %w", movesPath, err)
	}

	return normalizeCursorStream(events, meta), nil
}

// normalizeCursorStream converts raw device-pixel mouse-move events into
// normalized, bottom-left-origin, process-relative-time cursor samples.
func normalizeCursorStream(events []MouseMoveEvent, meta RecordingMetadata) []metrics.CursorSample {
	if len(events) == 0 || meta.Display.WidthPx <= 0 || meta.Display.HeightPx <= 0 {
		return nil
	}

	samples := make([]metrics.CursorSample, 0, len(events))
	for _, e := range events {
		t := (e.ProcessTimeMs - meta.ProcessTimeStartMs) / 1000.0
		nx := clamp01(e.X / meta.Display.WidthPx)
		ny := clamp01(1.0 - e.Y/meta.Display.HeightPx)
		samples = append(samples, metrics.CursorSample{Time: t, NX: nx, NY: ny})
	}
	return samples
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
