package manager

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"mlserve/internal/inference"
	"mlserve/internal/runner"
)

// createModelFile writes a small placeholder model file and returns its path.
func createModelFile(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("model"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return p
}

// fakeModel implements every backend capability with canned output.
type fakeModel struct {
	raw      *inference.DetectionRaw
	probs    [][]float32
	names    []string
	texts    []string
	inferErr error
}

func (f *fakeModel) Detect(ctx context.Context, in inference.Tensor, opts runner.DetectOptions) (*inference.DetectionRaw, error) {
	return f.raw, f.inferErr
}

func (f *fakeModel) Classify(ctx context.Context, in inference.Tensor) ([]string, [][]float32, error) {
	return f.names, f.probs, f.inferErr
}

func (f *fakeModel) Generate(ctx context.Context, prompt string, opts runner.GenerateOptions) ([]string, error) {
	return f.texts, f.inferErr
}

// countingLoader returns model on every Load and counts invocations.
func countingLoader(id inference.LoaderIdentity, model inference.ModelHandle, calls *atomic.Int32) inference.Loader {
	return inference.NewLoader(id, func(string) (inference.ModelHandle, error) {
		calls.Add(1)
		return model, nil
	})
}

func blankImage(w, h int) inference.ImageBuffer {
	return inference.NewImageBuffer(image.NewRGBA(image.Rect(0, 0, w, h)))
}
