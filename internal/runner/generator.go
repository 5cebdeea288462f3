package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mlserve/internal/inference"
)

var (
	errNoImage  = errors.New("runner: input image is required")
	errNoPrompt = errors.New("runner: prompt is required")
)

// Generator completes prompts with a causal language model.
type Generator struct {
	backend TextBackend
	cfg     inference.RunnerConfig
}

// NewGenerator is the RunnerFactory for text backends.
func NewGenerator(h inference.ModelHandle, cfg inference.RunnerConfig) (inference.Runner, error) {
	b, ok := h.(TextBackend)
	if !ok {
		return nil, capabilityError(inference.TaskGenerator, "TextBackend", h)
	}
	return &Generator{backend: b, cfg: withDefaults(cfg)}, nil
}

func (g *Generator) Infer(ctx context.Context, in inference.Input) (inference.RawResult, error) {
	if strings.TrimSpace(in.Prompt) == "" {
		return nil, errNoPrompt
	}
	texts, err := g.backend.Generate(ctx, in.Prompt, GenerateOptions{
		MaxNewTokens: g.cfg.MaxNewTokens,
		UseCache:     g.cfg.UseCache,
	})
	if err != nil {
		return nil, &inference.InferenceError{Runner: "generator", Err: err}
	}
	return &inference.GenerationRaw{Texts: texts}, nil
}

func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", v)
}
