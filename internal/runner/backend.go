package runner

import (
	"context"

	"mlserve/internal/inference"
)

// DetectOptions carries per-call detector thresholds.
type DetectOptions struct {
	Confidence float32
	IoU        float32
	InputSize  int
}

// DetectorBackend runs an object detector on a preprocessed tensor and
// returns boxes in model input coordinates, already suppressed by IoU.
type DetectorBackend interface {
	Detect(ctx context.Context, in inference.Tensor, opts DetectOptions) (*inference.DetectionRaw, error)
}

// ProbabilityBackend returns one probability vector per batch sample along
// with the class-name table.
type ProbabilityBackend interface {
	Classify(ctx context.Context, in inference.Tensor) (names []string, probs [][]float32, err error)
}

// ArrayBackend returns one raw score row per batch sample.
type ArrayBackend interface {
	Predict(ctx context.Context, in inference.Tensor) ([][]float32, error)
}

// GenerateOptions carries text generation parameters.
type GenerateOptions struct {
	MaxNewTokens int
	UseCache     bool
}

// TextBackend completes a prompt.
type TextBackend interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) ([]string, error)
}

// Defaults applied when RunnerConfig fields are unset.
const (
	DefaultInputSize           = 640
	DefaultConfidenceThreshold = 0.5
	DefaultOverlapThreshold    = 0.45
	DefaultMaxNewTokens        = 128
)

func withDefaults(cfg inference.RunnerConfig) inference.RunnerConfig {
	if cfg.InputSize <= 0 {
		cfg.InputSize = DefaultInputSize
	}
	if cfg.ConfidenceThreshold < 0 {
		cfg.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if cfg.OverlapThreshold < 0 {
		cfg.OverlapThreshold = DefaultOverlapThreshold
	}
	if cfg.MaxNewTokens <= 0 {
		cfg.MaxNewTokens = DefaultMaxNewTokens
	}
	return cfg
}

func capabilityError(task inference.TaskKind, want string, h inference.ModelHandle) error {
	return &inference.UnsupportedModelError{
		Task:   task,
		Reason: "model handle " + typeName(h) + " does not implement " + want,
	}
}

func requireImage(in inference.Input) (*inference.ImageBuffer, error) {
	if in.Image == nil || in.Image.Image == nil {
		return nil, errNoImage
	}
	return in.Image, nil
}
