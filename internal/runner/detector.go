package runner

import (
	"context"

	"mlserve/internal/inference"
)

// Detector runs a YOLO-style object detector: square resize, RGB, NCHW,
// [0,1] scaling and a batch of one.
type Detector struct {
	backend DetectorBackend
	cfg     inference.RunnerConfig
}

// NewDetector is the RunnerFactory for detector backends.
func NewDetector(h inference.ModelHandle, cfg inference.RunnerConfig) (inference.Runner, error) {
	b, ok := h.(DetectorBackend)
	if !ok {
		return nil, capabilityError(inference.TaskDetector, "DetectorBackend", h)
	}
	return &Detector{backend: b, cfg: withDefaults(cfg)}, nil
}

func (d *Detector) Infer(ctx context.Context, in inference.Input) (inference.RawResult, error) {
	img, err := requireImage(in)
	if err != nil {
		return nil, err
	}
	t, err := ImageToTensor(img.Image, TensorSpec{
		Size:   d.cfg.InputSize,
		Order:  RGB,
		Layout: inference.LayoutNCHW,
		Scale:  1.0 / 255.0,
	})
	if err != nil {
		return nil, err
	}
	raw, err := d.backend.Detect(ctx, t, DetectOptions{
		Confidence: d.cfg.ConfidenceThreshold,
		IoU:        d.cfg.OverlapThreshold,
		InputSize:  d.cfg.InputSize,
	})
	if err != nil {
		return nil, &inference.InferenceError{Runner: "detector", Err: err}
	}
	if raw == nil {
		raw = &inference.DetectionRaw{}
	}
	return raw, nil
}
