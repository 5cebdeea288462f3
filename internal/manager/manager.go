package manager

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mlserve/internal/inference"
	"mlserve/internal/registry"
)

// Manager is the prediction facade: it owns the model cache, resolves runners
// from the registry and normalizes their output.
type Manager struct {
	cache      *inference.ModelCache
	loadMu     sync.Mutex
	loaders    map[inference.LoaderIdentity]inference.Loader
	loaderID   inference.LoaderIdentity
	task       inference.TaskKind
	registry   *registry.Registry
	runnerCfg  inference.RunnerConfig
	labelsFile string
	startTime  time.Time

	mu      sync.RWMutex
	pub     EventPublisher
	log     zerolog.Logger
	state   State
	lastErr string
}

// SetLogger replaces the manager logger.
func (m *Manager) SetLogger(l zerolog.Logger) {
	m.mu.Lock()
	m.log = l
	m.mu.Unlock()
}

func (m *Manager) logger() *zerolog.Logger {
	m.mu.RLock()
	l := m.log
	m.mu.RUnlock()
	return &l
}

// Loader returns the configured loader identity.
func (m *Manager) Loader() inference.LoaderIdentity { return m.loaderID }

// Task returns the configured task kind.
func (m *Manager) Task() inference.TaskKind { return m.task }

// Ready reports whether the model is loaded and the last load did not fail.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateReady && m.cache.Loaded()
}

// Preload warms the cache with the configured loader so the first request
// does not pay the load cost.
func (m *Manager) Preload() error {
	_, err := m.load(m.loaderID, m.task)
	if err != nil {
		return &inference.PredictionError{Stage: inference.StageLoad, Loader: m.loaderID, Task: m.task, Err: err}
	}
	return nil
}

// load resolves the loader for id and runs the cache. Cold callers are
// serialized here so that only the caller that performs the load emits
// lifecycle events and moves the state.
func (m *Manager) load(id inference.LoaderIdentity, task inference.TaskKind) (inference.ModelHandle, error) {
	loader, ok := m.loaders[id]
	if !ok {
		return nil, &inference.UnsupportedModelError{Loader: id, Task: task, Reason: "no loader configured"}
	}
	if m.cache.Loaded() {
		return m.cache.GetOrLoad(loader)
	}
	m.loadMu.Lock()
	defer m.loadMu.Unlock()
	if m.cache.Loaded() {
		return m.cache.GetOrLoad(loader)
	}

	m.setState(StateLoading, "")
	m.publish(Event{Name: EventLoadStart, Loader: id, Task: task, Fields: map[string]any{"path": m.cache.Path()}})
	start := time.Now()
	h, err := m.cache.GetOrLoad(loader)
	if err != nil {
		m.setState(StateError, err.Error())
		m.publish(Event{Name: EventLoadError, Loader: id, Task: task, Fields: map[string]any{"error": err.Error()}})
		return nil, err
	}
	dur := time.Since(start)
	m.setState(StateReady, "")
	m.publish(Event{Name: EventLoadDone, Loader: id, Task: task, Fields: map[string]any{"dur_ms": dur.Milliseconds()}})
	m.logger().Info().Str("loader", string(id)).Str("path", m.cache.Path()).Dur("dur", dur).Msg("model loaded")
	return h, nil
}

func (m *Manager) setState(s State, errMsg string) {
	m.mu.Lock()
	m.state = s
	if errMsg != "" {
		m.lastErr = errMsg
	}
	m.mu.Unlock()
}
