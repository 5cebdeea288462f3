//go:build llama

package llama

import (
	"context"
	"errors"
	"strings"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"

	"mlserve/internal/inference"
	"mlserve/internal/runner"
)

// Built indicates this binary was compiled with real llama support.
const Built = true

// Model owns a loaded llama.cpp model. Predict calls are serialized since
// the token callback is bound to the model.
type Model struct {
	mu      sync.Mutex
	model   *llama.LLama
	threads int
	cache   string
}

// Load opens a GGUF model at path.
func Load(path string, opts Options) (inference.ModelHandle, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("model path is empty")
	}
	m, err := llama.New(path, llama.SetContext(withDefault(opts.ContextSize, DefaultContextSize)))
	if err != nil {
		return nil, err
	}
	return &Model{model: m, threads: withDefault(opts.Threads, DefaultThreads), cache: opts.PromptCachePath}, nil
}

// Generate completes prompt. Cancellation of ctx stops token generation.
func (m *Model) Generate(ctx context.Context, prompt string, opts runner.GenerateOptions) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.model == nil {
		return nil, errors.New("llama model not initialized")
	}
	m.model.SetTokenCallback(func(string) bool {
		return ctx.Err() == nil
	})
	text, err := m.model.Predict(prompt, predictOptions(opts, m.threads, m.cache)...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return []string{text}, nil
}

// Close frees the model.
func (m *Model) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.model != nil {
		m.model.Free()
		m.model = nil
	}
	return nil
}

func predictOptions(opts runner.GenerateOptions, threads int, cache string) []llama.PredictOption {
	po := []llama.PredictOption{
		llama.SetTokens(withDefault(opts.MaxNewTokens, runner.DefaultMaxNewTokens)),
		llama.SetThreads(withDefault(threads, DefaultThreads)),
	}
	if opts.UseCache && cache != "" {
		po = append(po, llama.SetPathPromptCache(cache), llama.EnablePromptCacheAll)
	}
	return po
}
