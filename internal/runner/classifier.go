package runner

import (
	"context"
	"fmt"

	"mlserve/internal/inference"
)

// ProbabilityClassifier runs a neural classifier that reports a
// probability vector per sample (YOLO classification models).
type ProbabilityClassifier struct {
	backend ProbabilityBackend
	cfg     inference.RunnerConfig
}

// NewProbabilityClassifier is the RunnerFactory for probability backends.
func NewProbabilityClassifier(h inference.ModelHandle, cfg inference.RunnerConfig) (inference.Runner, error) {
	b, ok := h.(ProbabilityBackend)
	if !ok {
		return nil, capabilityError(inference.TaskClassifier, "ProbabilityBackend", h)
	}
	return &ProbabilityClassifier{backend: b, cfg: withDefaults(cfg)}, nil
}

func (c *ProbabilityClassifier) Infer(ctx context.Context, in inference.Input) (inference.RawResult, error) {
	img, err := requireImage(in)
	if err != nil {
		return nil, err
	}
	t, err := ImageToTensor(img.Image, TensorSpec{
		Size:   c.cfg.InputSize,
		Order:  RGB,
		Layout: inference.LayoutNCHW,
		Scale:  1.0 / 255.0,
	})
	if err != nil {
		return nil, err
	}
	names, probs, err := c.backend.Classify(ctx, t)
	if err != nil {
		return nil, &inference.InferenceError{Runner: "probability-classifier", Err: err}
	}
	raw := &inference.ProbabilityRaw{Names: names, Probs: probs, Top1: make([]int, len(probs))}
	for i, p := range probs {
		raw.Top1[i] = inference.ArgMax(p)
	}
	return raw, nil
}

// ArrayClassifier runs a generic array-output classifier (Keras style):
// RGB, NHWC, [0,1] scaling. Each output row yields its argmax and score.
type ArrayClassifier struct {
	backend ArrayBackend
	cfg     inference.RunnerConfig
}

// NewArrayClassifier is the RunnerFactory for array backends.
func NewArrayClassifier(h inference.ModelHandle, cfg inference.RunnerConfig) (inference.Runner, error) {
	b, ok := h.(ArrayBackend)
	if !ok {
		return nil, capabilityError(inference.TaskClassifier, "ArrayBackend", h)
	}
	return &ArrayClassifier{backend: b, cfg: withDefaults(cfg)}, nil
}

func (c *ArrayClassifier) Infer(ctx context.Context, in inference.Input) (inference.RawResult, error) {
	img, err := requireImage(in)
	if err != nil {
		return nil, err
	}
	t, err := ImageToTensor(img.Image, TensorSpec{
		Size:   c.cfg.InputSize,
		Order:  RGB,
		Layout: inference.LayoutNHWC,
		Scale:  1.0 / 255.0,
	})
	if err != nil {
		return nil, err
	}
	rows, err := c.backend.Predict(ctx, t)
	if err != nil {
		return nil, &inference.InferenceError{Runner: "array-classifier", Err: err}
	}
	raw := &inference.ScoreRaw{Pairs: make([]inference.ScorePair, 0, len(rows))}
	for i, row := range rows {
		idx := inference.ArgMax(row)
		if idx < 0 {
			return nil, &inference.InferenceError{Runner: "array-classifier", Err: fmt.Errorf("sample %d: empty prediction row", i)}
		}
		raw.Pairs = append(raw.Pairs, inference.ScorePair{Index: idx, Score: row[idx]})
	}
	return raw, nil
}
