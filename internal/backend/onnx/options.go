// Package onnx serves YOLO and Keras models exported to ONNX through
// onnxruntime. The runtime is linked only with the "onnx" build tag; default
// builds get a stub whose Load reports the dependency as unavailable.
package onnx

import "strconv"

// Options configures Load.
type Options struct {
	// LibraryPath points at libonnxruntime; empty uses the platform default.
	LibraryPath string
	// Names is the class table. Missing entries fall back to the index.
	Names []string
}

func classNames(names []string, n int) []string {
	if n <= len(names) {
		return names
	}
	out := make([]string, n)
	copy(out, names)
	for i := len(names); i < n; i++ {
		out[i] = strconv.Itoa(i)
	}
	return out
}
