// Package yolo decodes YOLOv8-style detector output and applies
// class-aware non-maximum suppression. It has no runtime dependency so the
// post-processing is testable without a model.
package yolo

import (
	"fmt"
	"math"
	"sort"
)

// Candidate is one box that passed the confidence filter, in model input
// coordinates: [x_center, y_center, width, height].
type Candidate struct {
	Box   [4]float32
	Class int
	Score float32
}

// Decode reads a flattened [4+numClasses, N] output (one column per anchor)
// and keeps anchors whose best class score is at least conf.
func Decode(output []float32, numClasses int, conf float32) ([]Candidate, error) {
	if numClasses <= 0 {
		return nil, fmt.Errorf("yolo: invalid class count %d", numClasses)
	}
	rows := 4 + numClasses
	if len(output)%rows != 0 {
		return nil, fmt.Errorf("yolo: output length %d is not a multiple of %d", len(output), rows)
	}
	n := len(output) / rows
	var out []Candidate
	for i := 0; i < n; i++ {
		best, score := 0, float32(-1)
		for c := 0; c < numClasses; c++ {
			if v := output[(4+c)*n+i]; v > score {
				best, score = c, v
			}
		}
		if score < conf {
			continue
		}
		out = append(out, Candidate{
			Box:   [4]float32{output[i], output[n+i], output[2*n+i], output[3*n+i]},
			Class: best,
			Score: score,
		})
	}
	return out, nil
}

// NMS suppresses overlapping boxes of the same class, keeping the highest
// score. The result is ordered by descending score; ties keep decode order.
func NMS(cands []Candidate, iou float32) []Candidate {
	sorted := make([]Candidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	kept := make([]Candidate, 0, len(sorted))
	for _, c := range sorted {
		drop := false
		for _, k := range kept {
			if k.Class == c.Class && IoU(k.Box, c.Box) > iou {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, c)
		}
	}
	return kept
}

// IoU computes intersection over union of two center-format boxes.
func IoU(a, b [4]float32) float32 {
	ax1, ay1, ax2, ay2 := corners(a)
	bx1, by1, bx2, by2 := corners(b)
	iw := min32(ax2, bx2) - max32(ax1, bx1)
	ih := min32(ay2, by2) - max32(ay1, by1)
	if iw <= 0 || ih <= 0 {
		return 0
	}
	inter := iw * ih
	union := a[2]*a[3] + b[2]*b[3] - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

func corners(b [4]float32) (x1, y1, x2, y2 float32) {
	return b[0] - b[2]/2, b[1] - b[3]/2, b[0] + b[2]/2, b[1] + b[3]/2
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Softmax returns a normalised copy of logits.
func Softmax(logits []float32) []float32 {
	out := make([]float32, len(logits))
	if len(logits) == 0 {
		return out
	}
	m := logits[0]
	for _, v := range logits[1:] {
		if v > m {
			m = v
		}
	}
	var sum float64
	for i, v := range logits {
		e := math.Exp(float64(v - m))
		out[i] = float32(e)
		sum += e
	}
	for i := range out {
		out[i] = float32(float64(out[i]) / sum)
	}
	return out
}

// IsDistribution reports whether p already sums to ~1 with no negative
// entries, i.e. the model applied softmax itself.
func IsDistribution(p []float32) bool {
	if len(p) == 0 {
		return false
	}
	var sum float64
	for _, v := range p {
		if v < 0 {
			return false
		}
		sum += float64(v)
	}
	return math.Abs(sum-1) < 1e-3
}

// TopK returns the indices of the k largest values, largest first.
func TopK(p []float32, k int) []int {
	idx := make([]int, len(p))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return p[idx[i]] > p[idx[j]] })
	if k < len(idx) {
		idx = idx[:k]
	}
	return idx
}
