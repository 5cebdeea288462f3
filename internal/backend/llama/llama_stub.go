//go:build !llama

package llama

import "mlserve/internal/inference"

// Built indicates this binary was compiled with real llama support.
const Built = false

// Load fails fast: llama.cpp is not linked into this binary.
func Load(path string, opts Options) (inference.ModelHandle, error) {
	return nil, inference.ErrDependencyUnavailable("llama support not built (missing 'llama' build tag)")
}
