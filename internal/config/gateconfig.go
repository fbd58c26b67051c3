// Package config loads the gate configuration and run-level tuning that
// drive a scenario evaluation pass, following the same nullable-pointer
// + GetXxx()-default convention used throughout this codebase's JSON
// configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/banshee-data/camqa/internal/gates"
)

// maxConfigFileSize caps how large a config file this package will parse.
const maxConfigFileSize = 1 * 1024 * 1024 // 1MB

// GateConfig is the root of the gate configuration document: blocking
// mode, the (reported-but-not-enforced) pass-rate target, and the
// per-metric operator/threshold table.
type GateConfig struct {
	Mode           *string               `json:"mode,omitempty"`
	PassRateTarget *float64              `json:"passRateTarget,omitempty"`
	MetricGates    map[string]gates.Rule `json:"metricGates,omitempty"`
}

// GetMode returns the configured mode or "non_blocking" if unset.
func (c *GateConfig) GetMode() string {
	if c == nil || c.Mode == nil {
		return "non_blocking"
	}
	return *c.Mode
}

// GetPassRateTarget returns the configured pass-rate target or 1.0
// (100%) if unset. The core reads but never enforces this value — see
// DESIGN.md.
func (c *GateConfig) GetPassRateTarget() float64 {
	if c == nil || c.PassRateTarget == nil {
		return 1.0
	}
	return *c.PassRateTarget
}

// GetMetricGates returns the configured gate table, or an empty table if
// unset.
func (c *GateConfig) GetMetricGates() gates.Table {
	if c == nil || c.MetricGates == nil {
		return gates.Table{}
	}
	return gates.Table(c.MetricGates)
}

// Validate rejects a gate configuration with a structurally invalid
// field: an unknown mode, an empty metric key, an unsupported operator,
// or a negative threshold.
func (c *GateConfig) Validate() error {
	if c.Mode != nil && *c.Mode != "blocking" && *c.Mode != "non_blocking" {
		return fmt.Errorf("mode must be \"blocking\" or \"non_blocking\", got %q", *c.Mode)
	}
	for metric, rule := range c.MetricGates {
		if metric == "" {
			return fmt.Errorf("gate metric key must not be empty")
		}
		if rule.Operator == "" {
			return fmt.Errorf("gate for metric %q is missing an operator", metric)
		}
		if !rule.Operator.Valid() {
			return fmt.Errorf("gate for metric %q uses unsupported operator %q", metric, rule.Operator)
		}
		if rule.Threshold < 0 {
			return fmt.Errorf("gate for metric %q has a negative threshold %v", metric, rule.Threshold)
		}
	}
	return nil
}

// LoadGateConfig loads a GateConfig from a JSON file. Fields omitted from
// the file retain their documented defaults, so partial configs are safe.
func LoadGateConfig(path string) (*GateConfig, error) {
	data, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &GateConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse gate config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid gate configuration: %w", err)
	}
	return cfg, nil
}

// RunConfig is the analyzer's run-level tuning: sampling rate, scenario
// fan-out concurrency, and the manifest/gate-config paths. All fields are
// optional; GetXxx() accessors supply defaults.
type RunConfig struct {
	SampleRateHz   *float64 `json:"sampleRateHz,omitempty"`
	Concurrency    *int     `json:"concurrency,omitempty"`
	ManifestPath   *string  `json:"manifestPath,omitempty"`
	GateConfigPath *string  `json:"gateConfigPath,omitempty"`
}

// GetSampleRateHz returns the configured sampling rate or 60.0 if unset.
func (c *RunConfig) GetSampleRateHz() float64 {
	if c == nil || c.SampleRateHz == nil {
		return 60.0
	}
	return *c.SampleRateHz
}

// GetConcurrency returns the configured scenario fan-out concurrency, or
// runtime.NumCPU() if unset.
func (c *RunConfig) GetConcurrency() int {
	if c == nil || c.Concurrency == nil {
		return runtime.NumCPU()
	}
	return *c.Concurrency
}

// GetManifestPath returns the configured manifest path or
// "manifest.json" if unset.
func (c *RunConfig) GetManifestPath() string {
	if c == nil || c.ManifestPath == nil {
		return "manifest.json"
	}
	return *c.ManifestPath
}

// LoadRunConfig loads a RunConfig from a JSON file.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &RunConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse run config JSON: %w", err)
	}
	if cfg.SampleRateHz != nil && *cfg.SampleRateHz <= 0 {
		return nil, fmt.Errorf("sampleRateHz must be positive, got %v", *cfg.SampleRateHz)
	}
	if cfg.Concurrency != nil && *cfg.Concurrency < 1 {
		return nil, fmt.Errorf("concurrency must be at least 1, got %d", *cfg.Concurrency)
	}
	return cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return data, nil
}
