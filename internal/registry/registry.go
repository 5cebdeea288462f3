// Package registry maps (loader identity, task kind) pairs to runner
// factories. Lookups are exact; there is no fallback runner.
package registry

import (
	"fmt"
	"sort"

	"mlserve/internal/inference"
	"mlserve/internal/runner"
)

// Key identifies a registry entry.
type Key struct {
	Loader inference.LoaderIdentity
	Task   inference.TaskKind
}

func (k Key) String() string { return string(k.Loader) + "/" + string(k.Task) }

// Registry is a static dispatch table. It is safe for concurrent reads once
// construction is complete.
type Registry struct {
	entries map[Key]inference.RunnerFactory
}

// New builds a registry from entries.
func New(entries map[Key]inference.RunnerFactory) *Registry {
	r := &Registry{entries: make(map[Key]inference.RunnerFactory, len(entries))}
	for k, f := range entries {
		r.entries[k] = f
	}
	return r
}

// Default returns the production dispatch table.
func Default() *Registry {
	return New(map[Key]inference.RunnerFactory{
		{Loader: inference.LoaderYOLO, Task: inference.TaskDetector}:       runner.NewDetector,
		{Loader: inference.LoaderYOLO, Task: inference.TaskClassifier}:     runner.NewProbabilityClassifier,
		{Loader: inference.LoaderTFKeras, Task: inference.TaskClassifier}:  runner.NewArrayClassifier,
		{Loader: inference.LoaderCausalLM, Task: inference.TaskGenerator}: runner.NewGenerator,
	})
}

// Register adds a factory for a new pair. Registering an existing pair or a
// nil factory is an error. Register must not race with Resolve.
func (r *Registry) Register(k Key, f inference.RunnerFactory) error {
	if f == nil {
		return fmt.Errorf("registry: nil factory for %s", k)
	}
	if _, ok := r.entries[k]; ok {
		return fmt.Errorf("registry: %s already registered", k)
	}
	r.entries[k] = f
	return nil
}

// Resolve returns the factory registered for (id, task), or an
// UnsupportedModelError naming the pair.
func (r *Registry) Resolve(id inference.LoaderIdentity, task inference.TaskKind) (inference.RunnerFactory, error) {
	f, ok := r.entries[Key{Loader: id, Task: task}]
	if !ok {
		return nil, &inference.UnsupportedModelError{Loader: id, Task: task, Reason: "no runner registered"}
	}
	return f, nil
}

// Keys returns the registered pairs in sorted order.
func (r *Registry) Keys() []Key {
	out := make([]Key, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
