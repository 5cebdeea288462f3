package inference

import (
	"encoding/json"
	"testing"

	"mlserve/pkg/types"
)

func TestNormalizeDetectionDescalesBox(t *testing.T) {
	raw := &DetectionRaw{
		Names:       []string{"person", "car"},
		Boxes:       [][4]float32{{320, 320, 128, 64}},
		Classes:     []int{1},
		Confidences: []float32{0.9},
	}
	// scale_x = 960/640 = 1.5, scale_y = 1280/640 = 2.0
	out, err := Normalize(raw, TaskDetector, OriginalSize{Height: 1280, Width: 960}, 640)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	det, ok := out[0].(types.DetectionResult)
	if !ok {
		t.Fatalf("expected DetectionResult, got %T", out[0])
	}
	want := [4]int{384, 576, 192, 128}
	if det.BBox != want {
		t.Fatalf("bbox = %v, want %v", det.BBox, want)
	}
	if det.ClassName != "car" {
		t.Fatalf("class = %q, want car", det.ClassName)
	}
	if det.DetectionScore < 0.8999 || det.DetectionScore > 0.9001 {
		t.Fatalf("score = %v", det.DetectionScore)
	}
}

func TestDescaleBoxRoundsToNearest(t *testing.T) {
	cases := []struct {
		box    [4]float32
		sx, sy float64
		want   [4]int
	}{
		{[4]float32{100, 100, 50, 50}, 1, 1, [4]int{75, 75, 50, 50}},
		{[4]float32{10, 10, 3, 3}, 1, 1, [4]int{9, 9, 3, 3}},       // 8.5 rounds up
		{[4]float32{10.2, 20.7, 4.4, 4.6}, 1, 1, [4]int{8, 18, 4, 5}},
		{[4]float32{320, 240, 64, 48}, 0.5, 0.5, [4]int{144, 108, 32, 24}},
	}
	for _, tc := range cases {
		if got := DescaleBox(tc.box, tc.sx, tc.sy); got != tc.want {
			t.Fatalf("DescaleBox(%v, %v, %v) = %v, want %v", tc.box, tc.sx, tc.sy, got, tc.want)
		}
	}
}

func TestNormalizeEmptyDetections(t *testing.T) {
	out, err := Normalize(&DetectionRaw{Names: []string{"a"}}, TaskDetector, OriginalSize{Height: 10, Width: 10}, 640)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", out)
	}
	b, _ := json.Marshal(out)
	if string(b) != "[]" {
		t.Fatalf("expected [] on the wire, got %s", b)
	}
}

func TestNormalizeDetectionPreservesOrder(t *testing.T) {
	raw := &DetectionRaw{
		Names:       []string{"a", "b", "c"},
		Boxes:       [][4]float32{{10, 10, 2, 2}, {20, 20, 2, 2}, {30, 30, 2, 2}},
		Classes:     []int{2, 0, 1},
		Confidences: []float32{0.2, 0.9, 0.5},
	}
	out, err := Normalize(raw, TaskDetector, OriginalSize{Height: 640, Width: 640}, 640)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	wantNames := []string{"c", "a", "b"}
	for i, r := range out {
		d := r.(types.DetectionResult)
		if d.ClassName != wantNames[i] {
			t.Fatalf("record %d class = %q, want %q", i, d.ClassName, wantNames[i])
		}
		if d.BBox[0] != 9+10*i {
			t.Fatalf("record %d x = %d", i, d.BBox[0])
		}
	}
}

func TestNormalizeDetectionErrors(t *testing.T) {
	orig := OriginalSize{Height: 100, Width: 100}
	bad := []*DetectionRaw{
		{Names: []string{"a"}, Boxes: [][4]float32{{1, 1, 1, 1}}, Classes: []int{3}, Confidences: []float32{0.5}},
		{Names: []string{"a"}, Boxes: [][4]float32{{1, 1, 1, 1}}, Classes: []int{0}},
	}
	for i, raw := range bad {
		if _, err := Normalize(raw, TaskDetector, orig, 640); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
	ok := &DetectionRaw{Names: []string{"a"}, Boxes: [][4]float32{{1, 1, 1, 1}}, Classes: []int{0}, Confidences: []float32{1}}
	if _, err := Normalize(ok, TaskDetector, orig, 0); err == nil {
		t.Fatalf("expected error for zero input size")
	}
}

func TestNormalizeClassificationTop1(t *testing.T) {
	raw := &ProbabilityRaw{
		Names: []string{"cat", "dog", "bird"},
		Probs: [][]float32{{0.1, 0.7, 0.2}},
		Top1:  []int{1},
	}
	out, err := Normalize(raw, TaskClassifier, OriginalSize{}, 224)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	c := out[0].(types.ClassificationResult)
	if c.ClassName.String() != "dog" || !c.ClassName.Named {
		t.Fatalf("class = %+v, want dog", c.ClassName)
	}
	if c.ClassificationScore < 0.6999 || c.ClassificationScore > 0.7001 {
		t.Fatalf("score = %v, want 0.7", c.ClassificationScore)
	}
}

func TestNormalizeClassificationWithoutTop1UsesArgMax(t *testing.T) {
	raw := &ProbabilityRaw{
		Names: []string{"a", "b", "c"},
		Probs: [][]float32{{0.6, 0.3, 0.1}, {0.1, 0.2, 0.7}},
	}
	out, err := Normalize(raw, TaskClassifier, OriginalSize{}, 224)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if got := out[0].(types.ClassificationResult).ClassName.String(); got != "a" {
		t.Fatalf("sample 0 = %s", got)
	}
	if got := out[1].(types.ClassificationResult).ClassName.String(); got != "c" {
		t.Fatalf("sample 1 = %s", got)
	}
}

func TestNormalizeScorePairsUseRawIndex(t *testing.T) {
	raw := &ScoreRaw{Pairs: []ScorePair{{Index: 4, Score: 0.8}, {Index: 0, Score: 0.55}}}
	out, err := Normalize(raw, TaskClassifier, OriginalSize{}, 224)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	b, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"class_name":4,"classification_score":0.800000011920929},{"class_name":0,"classification_score":0.550000011920929}]`
	if string(b) != want {
		t.Fatalf("json = %s\nwant   %s", b, want)
	}
}

func TestNormalizeGeneration(t *testing.T) {
	out, err := Normalize(&GenerationRaw{Texts: []string{"hello"}}, TaskGenerator, OriginalSize{}, 0)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if g := out[0].(types.GenerationResult); g.Text != "hello" {
		t.Fatalf("text = %q", g.Text)
	}
}

func TestNormalizeTaskMismatch(t *testing.T) {
	if _, err := Normalize(&ScoreRaw{}, TaskDetector, OriginalSize{}, 640); err == nil {
		t.Fatalf("expected error for score result on detector task")
	}
	if _, err := Normalize(&DetectionRaw{}, TaskClassifier, OriginalSize{}, 640); err == nil {
		t.Fatalf("expected error for detection result on classifier task")
	}
	if _, err := Normalize(nil, TaskDetector, OriginalSize{}, 640); err == nil {
		t.Fatalf("expected error for nil raw")
	}
}

func TestArgMax(t *testing.T) {
	if ArgMax(nil) != -1 {
		t.Fatalf("empty slice should return -1")
	}
	if got := ArgMax([]float32{0.2, 0.5, 0.5}); got != 1 {
		t.Fatalf("ties should pick first, got %d", got)
	}
}
