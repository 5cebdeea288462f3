package manager

import "mlserve/internal/inference"

// Event names published by the manager.
const (
	EventLoadStart    = "load_start"
	EventLoadDone     = "load_done"
	EventLoadError    = "load_error"
	EventPredictDone  = "predict_done"
	EventPredictError = "predict_error"
)

// Event represents a manager lifecycle event.
// Minimal and stable: name + dispatch pair and optional fields via key/values.
type Event struct {
	Name   string
	Loader inference.LoaderIdentity
	Task   inference.TaskKind
	Fields map[string]any
}

// EventPublisher receives events from the manager. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

// SetEventPublisher replaces the event sink. Nil restores the no-op sink.
func (m *Manager) SetEventPublisher(p EventPublisher) {
	if p == nil {
		p = noopPublisher{}
	}
	m.mu.Lock()
	m.pub = p
	m.mu.Unlock()
}

func (m *Manager) publish(e Event) {
	m.mu.RLock()
	p := m.pub
	m.mu.RUnlock()
	p.Publish(e)
}
