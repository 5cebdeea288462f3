package inference

import (
	"errors"
	"fmt"
)

// ErrLoaderMismatch is returned by the cache when a warm handle was produced
// by a different loader identity than the one requested. Only one model
// family is supported per process.
var ErrLoaderMismatch = errors.New("cached model was loaded by a different loader")

// ModelLoadError signals a missing model file or a loader that produced
// nothing. The cache is left unchanged.
type ModelLoadError struct {
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("model load %s: %v", e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error { return e.Err }

// IsModelLoad reports whether err is or wraps a ModelLoadError.
func IsModelLoad(err error) bool {
	var e *ModelLoadError
	return errors.As(err, &e)
}

// UnsupportedModelError reports a (loader, task) pair with no registered
// runner, or a handle that lacks the capability its runner needs. It is a
// configuration bug.
type UnsupportedModelError struct {
	Loader LoaderIdentity
	Task   TaskKind
	Reason string
}

func (e *UnsupportedModelError) Error() string {
	msg := fmt.Sprintf("unsupported model: loader=%s task=%s", e.Loader, e.Task)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// IsUnsupportedModel reports whether err is or wraps an UnsupportedModelError.
func IsUnsupportedModel(err error) bool {
	var e *UnsupportedModelError
	return errors.As(err, &e)
}

// InferenceError wraps a failure raised while invoking a backend.
type InferenceError struct {
	Runner string
	Err    error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference (%s): %v", e.Runner, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// IsInference reports whether err is or wraps an InferenceError.
func IsInference(err error) bool {
	var e *InferenceError
	return errors.As(err, &e)
}

// Pipeline stages recorded on PredictionError.
const (
	StageLoad      = "load"
	StageResolve   = "resolve"
	StageBuild     = "build"
	StageInfer     = "infer"
	StageNormalize = "normalize"
)

// PredictionError is the umbrella error returned by the prediction facade.
// It records the failing stage and the dispatch identifiers.
type PredictionError struct {
	Stage  string
	Loader LoaderIdentity
	Task   TaskKind
	Err    error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction failed at %s (loader=%s task=%s): %v", e.Stage, e.Loader, e.Task, e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }

// IsPrediction reports whether err is or wraps a PredictionError.
func IsPrediction(err error) bool {
	var e *PredictionError
	return errors.As(err, &e)
}

// dependencyUnavailableError signals a backend that is not compiled into
// this binary, so the HTTP layer can return 503 instead of 500.
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependency-unavailable error.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err is or wraps a missing runtime dependency.
func IsDependencyUnavailable(err error) bool {
	var e dependencyUnavailableError
	return errors.As(err, &e)
}
