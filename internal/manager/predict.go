package manager

import (
	"context"
	"errors"
	"time"

	"mlserve/internal/inference"
	"mlserve/pkg/types"
)

var errNoImage = errors.New("no image supplied")

// Predict runs img through the pipeline for (id, task) and returns the
// normalized records. The original image size is captured before any
// preprocessing. Failures are *inference.PredictionError.
func (m *Manager) Predict(ctx context.Context, img inference.ImageBuffer, id inference.LoaderIdentity, task inference.TaskKind) ([]types.Record, error) {
	if img.Image == nil {
		return nil, m.fail(id, task, inference.StageInfer, errNoImage, time.Now())
	}
	return m.run(ctx, inference.Input{Image: &img}, img.Size(), id, task)
}

// PredictImage predicts with the configured loader and task.
func (m *Manager) PredictImage(ctx context.Context, img inference.ImageBuffer) ([]types.Record, error) {
	return m.Predict(ctx, img, m.loaderID, m.task)
}

// Generate completes prompt with the configured loader under the generator
// task.
func (m *Manager) Generate(ctx context.Context, prompt string) ([]types.Record, error) {
	return m.run(ctx, inference.Input{Prompt: prompt}, inference.OriginalSize{}, m.loaderID, inference.TaskGenerator)
}

func (m *Manager) run(ctx context.Context, in inference.Input, orig inference.OriginalSize, id inference.LoaderIdentity, task inference.TaskKind) ([]types.Record, error) {
	start := time.Now()
	handle, err := m.load(id, task)
	if err != nil {
		return nil, m.fail(id, task, inference.StageLoad, err, start)
	}
	factory, err := m.registry.Resolve(id, task)
	if err != nil {
		return nil, m.fail(id, task, inference.StageResolve, err, start)
	}
	r, err := factory(handle, m.runnerCfg)
	if err != nil {
		return nil, m.fail(id, task, inference.StageBuild, err, start)
	}
	raw, err := r.Infer(ctx, in)
	if err != nil {
		return nil, m.fail(id, task, inference.StageInfer, err, start)
	}
	out, err := inference.Normalize(raw, task, orig, m.runnerCfg.InputSize)
	if err != nil {
		return nil, m.fail(id, task, inference.StageNormalize, err, start)
	}
	dur := time.Since(start)
	m.publish(Event{Name: EventPredictDone, Loader: id, Task: task, Fields: map[string]any{
		"dur_ms":  dur.Milliseconds(),
		"records": len(out),
	}})
	m.logger().Debug().Str("loader", string(id)).Str("task", string(task)).Int("records", len(out)).Dur("dur", dur).Msg("prediction done")
	return out, nil
}

// fail wraps err with its stage, fills in the dispatch pair on capability
// errors raised by runner factories, and reports the failure once.
func (m *Manager) fail(id inference.LoaderIdentity, task inference.TaskKind, stage string, err error, start time.Time) error {
	var ue *inference.UnsupportedModelError
	if errors.As(err, &ue) && ue.Loader == "" {
		ue.Loader = id
	}
	perr := &inference.PredictionError{Stage: stage, Loader: id, Task: task, Err: err}
	m.publish(Event{Name: EventPredictError, Loader: id, Task: task, Fields: map[string]any{
		"stage":  stage,
		"error":  err.Error(),
		"dur_ms": time.Since(start).Milliseconds(),
	}})
	m.logger().Warn().Err(err).Str("stage", stage).Str("loader", string(id)).Str("task", string(task)).Msg("prediction failed")
	return perr
}
