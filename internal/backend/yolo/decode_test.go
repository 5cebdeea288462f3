package yolo

import (
	"math"
	"testing"
)

// column-major helper: build a [4+nc, N] buffer from per-anchor rows.
func pack(anchors [][]float32) []float32 {
	n := len(anchors)
	rows := len(anchors[0])
	out := make([]float32, rows*n)
	for i, a := range anchors {
		for r, v := range a {
			out[r*n+i] = v
		}
	}
	return out
}

func TestDecodeFiltersByConfidence(t *testing.T) {
	out := pack([][]float32{
		{100, 100, 20, 20, 0.9, 0.1},
		{200, 200, 30, 30, 0.2, 0.3},
		{300, 300, 40, 40, 0.1, 0.6},
	})
	got, err := Decode(out, 2, 0.5)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].Class != 0 || got[0].Score != 0.9 || got[0].Box != [4]float32{100, 100, 20, 20} {
		t.Fatalf("first = %+v", got[0])
	}
	if got[1].Class != 1 || got[1].Box[0] != 300 {
		t.Fatalf("second = %+v", got[1])
	}
}

func TestDecodeRejectsBadShape(t *testing.T) {
	if _, err := Decode(make([]float32, 7), 2, 0.5); err == nil {
		t.Fatalf("expected shape error")
	}
	if _, err := Decode(nil, 0, 0.5); err == nil {
		t.Fatalf("expected class count error")
	}
}

func TestDecodeNoAnchors(t *testing.T) {
	got, err := Decode(nil, 3, 0.5)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty, got %v %v", got, err)
	}
}

func TestNMSClassAware(t *testing.T) {
	cands := []Candidate{
		{Box: [4]float32{50, 50, 20, 20}, Class: 0, Score: 0.6},
		{Box: [4]float32{51, 51, 20, 20}, Class: 0, Score: 0.9},
		{Box: [4]float32{51, 51, 20, 20}, Class: 1, Score: 0.7},
		{Box: [4]float32{200, 200, 20, 20}, Class: 0, Score: 0.5},
	}
	kept := NMS(cands, 0.45)
	if len(kept) != 3 {
		t.Fatalf("expected 3 kept, got %+v", kept)
	}
	if kept[0].Score != 0.9 || kept[1].Class != 1 || kept[2].Box[0] != 200 {
		t.Fatalf("unexpected order %+v", kept)
	}
}

func TestIoU(t *testing.T) {
	a := [4]float32{10, 10, 10, 10}
	if v := IoU(a, a); math.Abs(float64(v-1)) > 1e-6 {
		t.Fatalf("self IoU = %v", v)
	}
	if v := IoU(a, [4]float32{100, 100, 10, 10}); v != 0 {
		t.Fatalf("disjoint IoU = %v", v)
	}
	// Half overlap along x: inter 50, union 150.
	if v := IoU(a, [4]float32{15, 10, 10, 10}); math.Abs(float64(v)-1.0/3) > 1e-6 {
		t.Fatalf("half IoU = %v", v)
	}
}

func TestSoftmaxAndTopK(t *testing.T) {
	p := Softmax([]float32{1, 3, 2})
	if !IsDistribution(p) {
		t.Fatalf("softmax does not sum to 1: %v", p)
	}
	top := TopK(p, 2)
	if len(top) != 2 || top[0] != 1 || top[1] != 2 {
		t.Fatalf("topk = %v", top)
	}
	if IsDistribution([]float32{2, -1}) {
		t.Fatalf("logits reported as distribution")
	}
	if len(Softmax(nil)) != 0 {
		t.Fatalf("expected empty softmax")
	}
}
