//go:build !onnx

package onnx

import "mlserve/internal/inference"

// Built reports whether onnxruntime support is compiled in.
const Built = false

// Load fails fast: onnxruntime is not linked into this binary.
func Load(path string, opts Options) (inference.ModelHandle, error) {
	return nil, inference.ErrDependencyUnavailable("onnx support not built (missing 'onnx' build tag)")
}
