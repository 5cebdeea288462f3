//go:build onnx

package onnx

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"mlserve/internal/backend/yolo"
	"mlserve/internal/inference"
	"mlserve/internal/runner"
)

// Built reports whether onnxruntime support is compiled in.
const Built = true

var (
	envOnce sync.Once
	envErr  error
)

func initEnvironment(libPath string) error {
	envOnce.Do(func() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		envErr = ort.InitializeEnvironment()
	})
	return envErr
}

// Session is a loaded onnxruntime model with one input and one output
// tensor bound at load time. It serves as detector, probability classifier
// and array model; the registered runner decides which method is used.
type Session struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	inShape ort.Shape
	outDims ort.Shape
	names   []string
}

// Load opens the model at path. Dynamic dimensions (-1) are bound to 1.
func Load(path string, opts Options) (inference.ModelHandle, error) {
	if err := initEnvironment(opts.LibraryPath); err != nil {
		return nil, fmt.Errorf("initialize onnxruntime: %w", err)
	}
	inputs, outputs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("read model io info: %w", err)
	}
	if len(inputs) != 1 || len(outputs) != 1 {
		return nil, fmt.Errorf("expected 1 input and 1 output, got %d and %d", len(inputs), len(outputs))
	}
	inShape := bindDynamic(inputs[0].Dimensions)
	outShape := bindDynamic(outputs[0].Dimensions)

	in, err := ort.NewEmptyTensor[float32](inShape)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	out, err := ort.NewEmptyTensor[float32](outShape)
	if err != nil {
		in.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}
	sess, err := ort.NewAdvancedSession(path,
		[]string{inputs[0].Name}, []string{outputs[0].Name},
		[]ort.ArbitraryTensor{in}, []ort.ArbitraryTensor{out},
		nil)
	if err != nil {
		in.Destroy()
		out.Destroy()
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &Session{
		session: sess,
		input:   in,
		output:  out,
		inShape: inShape,
		outDims: outShape,
		names:   opts.Names,
	}, nil
}

func bindDynamic(dims ort.Shape) ort.Shape {
	s := dims.Clone()
	for i, d := range s {
		if d < 0 {
			s[i] = 1
		}
	}
	return s
}

// run copies t into the bound input, runs the session and returns a copy of
// the output buffer.
func (s *Session) run(ctx context.Context, t inference.Tensor) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if int64(len(t.Data)) != s.inShape.FlattenedSize() {
		return nil, fmt.Errorf("input has %d values, model expects shape %v", len(t.Data), s.inShape)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copy(s.input.GetData(), t.Data)
	if err := s.session.Run(); err != nil {
		return nil, err
	}
	src := s.output.GetData()
	out := make([]float32, len(src))
	copy(out, src)
	return out, nil
}

// Detect decodes a [1, 4+nc, N] YOLO output and applies NMS.
func (s *Session) Detect(ctx context.Context, t inference.Tensor, opts runner.DetectOptions) (*inference.DetectionRaw, error) {
	if len(s.outDims) != 3 {
		return nil, fmt.Errorf("detector output rank %d, want 3", len(s.outDims))
	}
	nc := int(s.outDims[1]) - 4
	data, err := s.run(ctx, t)
	if err != nil {
		return nil, err
	}
	cands, err := yolo.Decode(data, nc, opts.Confidence)
	if err != nil {
		return nil, err
	}
	kept := yolo.NMS(cands, opts.IoU)
	raw := &inference.DetectionRaw{Names: classNames(s.names, nc)}
	for _, c := range kept {
		raw.Boxes = append(raw.Boxes, c.Box)
		raw.Classes = append(raw.Classes, c.Class)
		raw.Confidences = append(raw.Confidences, c.Score)
	}
	return raw, nil
}

// Classify returns one probability vector per sample. Logits are passed
// through softmax when the model did not normalise them.
func (s *Session) Classify(ctx context.Context, t inference.Tensor) ([]string, [][]float32, error) {
	rows, err := s.Predict(ctx, t)
	if err != nil {
		return nil, nil, err
	}
	for i, r := range rows {
		if !yolo.IsDistribution(r) {
			rows[i] = yolo.Softmax(r)
		}
	}
	nc := 0
	if len(rows) > 0 {
		nc = len(rows[0])
	}
	return classNames(s.names, nc), rows, nil
}

// Predict returns the raw output split into one row per batch sample.
func (s *Session) Predict(ctx context.Context, t inference.Tensor) ([][]float32, error) {
	data, err := s.run(ctx, t)
	if err != nil {
		return nil, err
	}
	batch := 1
	if len(s.outDims) > 1 && s.outDims[0] > 0 {
		batch = int(s.outDims[0])
	}
	width := len(data) / batch
	rows := make([][]float32, batch)
	for i := range rows {
		rows[i] = data[i*width : (i+1)*width]
	}
	return rows, nil
}

// Close releases the session and its tensors.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		s.session.Destroy()
		s.session = nil
	}
	if s.input != nil {
		s.input.Destroy()
		s.input = nil
	}
	if s.output != nil {
		s.output.Destroy()
		s.output = nil
	}
	return nil
}
