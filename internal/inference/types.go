package inference

import (
	"context"
	"fmt"
	"image"
	"strings"
)

// LoaderIdentity names the backend loading function configured for the
// deployment. It is resolved once from configuration and used as a
// dispatch key.
type LoaderIdentity string

const (
	LoaderYOLO     LoaderIdentity = "yolo"
	LoaderTFKeras  LoaderIdentity = "tf-keras"
	LoaderCausalLM LoaderIdentity = "causal-lm"
)

// LoaderIdentities lists every known loader identity.
func LoaderIdentities() []LoaderIdentity {
	return []LoaderIdentity{LoaderYOLO, LoaderTFKeras, LoaderCausalLM}
}

// ParseLoaderIdentity validates s against the known loader identities.
func ParseLoaderIdentity(s string) (LoaderIdentity, error) {
	id := LoaderIdentity(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range LoaderIdentities() {
		if id == known {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown loader identity %q", s)
}

// TaskKind declares which runner strategy applies to a request.
type TaskKind string

const (
	TaskDetector   TaskKind = "detector"
	TaskClassifier TaskKind = "classifier"
	TaskGenerator  TaskKind = "generator"
)

// ParseTaskKind validates s against the known task kinds.
func ParseTaskKind(s string) (TaskKind, error) {
	switch t := TaskKind(strings.ToLower(strings.TrimSpace(s))); t {
	case TaskDetector, TaskClassifier, TaskGenerator:
		return t, nil
	default:
		return "", fmt.Errorf("unknown task kind %q", s)
	}
}

// ModelHandle is an opaque, backend-specific loaded model. Runner factories
// assert the capability interface they need.
type ModelHandle = any

// Loader produces a ModelHandle from a model file path.
type Loader interface {
	Identity() LoaderIdentity
	Load(path string) (ModelHandle, error)
}

type funcLoader struct {
	id LoaderIdentity
	fn func(path string) (ModelHandle, error)
}

func (l funcLoader) Identity() LoaderIdentity               { return l.id }
func (l funcLoader) Load(path string) (ModelHandle, error) { return l.fn(path) }

// NewLoader adapts a plain load function to a Loader.
func NewLoader(id LoaderIdentity, fn func(path string) (ModelHandle, error)) Loader {
	return funcLoader{id: id, fn: fn}
}

// ImageBuffer is a decoded image together with its original size. It is
// owned by the caller for the duration of one request.
type ImageBuffer struct {
	Image image.Image
}

// NewImageBuffer wraps a decoded image.
func NewImageBuffer(img image.Image) ImageBuffer { return ImageBuffer{Image: img} }

func (b ImageBuffer) Width() int {
	if b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dx()
}

func (b ImageBuffer) Height() int {
	if b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dy()
}

// Size returns the original (height, width) of the image.
func (b ImageBuffer) Size() OriginalSize {
	return OriginalSize{Height: b.Height(), Width: b.Width()}
}

// OriginalSize is the pre-resize size of an input image.
type OriginalSize struct {
	Height int
	Width  int
}

// Layout is the memory order of a batched image tensor.
type Layout string

const (
	LayoutNCHW Layout = "NCHW"
	LayoutNHWC Layout = "NHWC"
)

// Tensor is a dense float32 tensor handed to a backend.
type Tensor struct {
	Data   []float32
	Shape  []int64
	Layout Layout
}

// Input is what a runner consumes: an image for vision tasks or a prompt
// for text generation.
type Input struct {
	Image  *ImageBuffer
	Prompt string
}

// Runner owns preprocessing and backend invocation for one backend/task.
type Runner interface {
	Infer(ctx context.Context, in Input) (RawResult, error)
}

// RunnerConfig carries the tunables a runner factory may need. Zero
// thresholds are honoured; negative thresholds select the runner defaults.
type RunnerConfig struct {
	InputSize           int
	ConfidenceThreshold float32
	OverlapThreshold    float32
	MaxNewTokens        int
	UseCache            bool
}

// RunnerFactory builds a runner bound to a loaded model handle.
type RunnerFactory func(handle ModelHandle, cfg RunnerConfig) (Runner, error)

// RawResult is the backend-native output of a runner. It is one of
// *DetectionRaw, *ProbabilityRaw, *ScoreRaw or *GenerationRaw.
type RawResult interface {
	rawKind() string
}

// DetectionRaw holds detector output in model input coordinates. Boxes are
// [x_center, y_center, width, height]; Boxes, Classes and Confidences are
// parallel.
type DetectionRaw struct {
	Names       []string
	Boxes       [][4]float32
	Classes     []int
	Confidences []float32
}

// ProbabilityRaw holds per-sample probability vectors and top-1 indices
// from a neural classifier, alongside its class table.
type ProbabilityRaw struct {
	Names []string
	Probs [][]float32
	Top1  []int
}

// ScorePair is the top-1 index and score of one sample.
type ScorePair struct {
	Index int
	Score float32
}

// ScoreRaw holds one ScorePair per sample from a generic array classifier.
type ScoreRaw struct {
	Pairs []ScorePair
}

// GenerationRaw holds decoded completions from a text generator.
type GenerationRaw struct {
	Texts []string
}

func (*DetectionRaw) rawKind() string   { return "detection" }
func (*ProbabilityRaw) rawKind() string { return "probability" }
func (*ScoreRaw) rawKind() string       { return "score" }
func (*GenerationRaw) rawKind() string  { return "generation" }
