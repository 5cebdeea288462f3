package inference

import (
	"fmt"
	"math"

	"mlserve/pkg/types"
)

// Normalize converts a backend-native raw result into the stable record
// shape. Detection boxes are descaled from the square model input size to
// the original image size and converted to top-left form. Record order
// mirrors raw order. Empty raw input yields an empty, non-nil slice.
func Normalize(raw RawResult, task TaskKind, orig OriginalSize, inputSize int) ([]types.Record, error) {
	if raw == nil {
		return nil, fmt.Errorf("normalize: nil raw result")
	}
	switch r := raw.(type) {
	case *DetectionRaw:
		if task != TaskDetector {
			return nil, kindMismatch(r, task)
		}
		return normalizeDetections(r, orig, inputSize)
	case *ProbabilityRaw:
		if task != TaskClassifier {
			return nil, kindMismatch(r, task)
		}
		return normalizeProbabilities(r)
	case *ScoreRaw:
		if task != TaskClassifier {
			return nil, kindMismatch(r, task)
		}
		out := make([]types.Record, 0, len(r.Pairs))
		for _, p := range r.Pairs {
			out = append(out, types.ClassificationResult{
				ClassName:           types.IndexLabel(p.Index),
				ClassificationScore: float64(p.Score),
			})
		}
		return out, nil
	case *GenerationRaw:
		if task != TaskGenerator {
			return nil, kindMismatch(r, task)
		}
		out := make([]types.Record, 0, len(r.Texts))
		for _, t := range r.Texts {
			out = append(out, types.GenerationResult{Text: t})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("normalize: unknown raw result %T", raw)
	}
}

func kindMismatch(raw RawResult, task TaskKind) error {
	return fmt.Errorf("normalize: %s result cannot serve task %s", raw.rawKind(), task)
}

func normalizeDetections(r *DetectionRaw, orig OriginalSize, inputSize int) ([]types.Record, error) {
	n := len(r.Boxes)
	if len(r.Classes) != n || len(r.Confidences) != n {
		return nil, fmt.Errorf("normalize: detection lists differ in length: boxes=%d classes=%d confs=%d",
			n, len(r.Classes), len(r.Confidences))
	}
	out := make([]types.Record, 0, n)
	if n == 0 {
		return out, nil
	}
	if inputSize <= 0 {
		return nil, fmt.Errorf("normalize: invalid model input size %d", inputSize)
	}
	scaleX := float64(orig.Width) / float64(inputSize)
	scaleY := float64(orig.Height) / float64(inputSize)
	for i, b := range r.Boxes {
		cls := r.Classes[i]
		if cls < 0 || cls >= len(r.Names) {
			return nil, fmt.Errorf("normalize: class index %d outside class table of %d", cls, len(r.Names))
		}
		out = append(out, types.DetectionResult{
			ClassName:      r.Names[cls],
			DetectionScore: float64(r.Confidences[i]),
			BBox:           DescaleBox(b, scaleX, scaleY),
		})
	}
	return out, nil
}

// DescaleBox maps a center-form box in model input space to a top-left
// [x, y, width, height] box in original pixels, rounding to nearest.
func DescaleBox(b [4]float32, scaleX, scaleY float64) [4]int {
	xc := float64(b[0]) * scaleX
	yc := float64(b[1]) * scaleY
	w := float64(b[2]) * scaleX
	h := float64(b[3]) * scaleY
	return [4]int{
		int(math.Round(xc - w/2)),
		int(math.Round(yc - h/2)),
		int(math.Round(w)),
		int(math.Round(h)),
	}
}

func normalizeProbabilities(r *ProbabilityRaw) ([]types.Record, error) {
	if len(r.Top1) != 0 && len(r.Top1) != len(r.Probs) {
		return nil, fmt.Errorf("normalize: %d top-1 indices for %d samples", len(r.Top1), len(r.Probs))
	}
	out := make([]types.Record, 0, len(r.Probs))
	for i, probs := range r.Probs {
		if len(probs) == 0 {
			return nil, fmt.Errorf("normalize: sample %d has an empty probability vector", i)
		}
		best := ArgMax(probs)
		top := best
		if len(r.Top1) != 0 {
			top = r.Top1[i]
		}
		if top < 0 || top >= len(r.Names) {
			return nil, fmt.Errorf("normalize: class index %d outside class table of %d", top, len(r.Names))
		}
		out = append(out, types.ClassificationResult{
			ClassName:           types.NamedLabel(r.Names[top]),
			ClassificationScore: float64(probs[best]),
		})
	}
	return out, nil
}

// ArgMax returns the index of the largest value, the first one on ties.
// It returns -1 for an empty slice.
func ArgMax(v []float32) int {
	if len(v) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
