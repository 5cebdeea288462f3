// Package llama serves causal language models through go-llama.cpp. The
// cgo binding is compiled only with the "llama" build tag; default builds
// get a stub that reports the dependency as unavailable.
package llama

// Defaults for unset Options fields.
const (
	DefaultContextSize = 2048
	DefaultThreads     = 4
)

// Options configures Load.
type Options struct {
	ContextSize int
	Threads     int
	// PromptCachePath enables llama.cpp's prompt cache when generation asks
	// for caching.
	PromptCachePath string
}

func withDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
