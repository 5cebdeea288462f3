package manager

import (
	"time"

	"mlserve/pkg/types"
)

// Status builds a detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	keys := m.registry.Keys()
	runners := make([]string, 0, len(keys))
	for _, k := range keys {
		runners = append(runners, k.String())
	}
	m.mu.RLock()
	state, lastErr := m.state, m.lastErr
	m.mu.RUnlock()
	now := time.Now()
	return types.StatusResponse{
		Loader:         string(m.loaderID),
		Task:           string(m.task),
		ModelPath:      m.cache.Path(),
		State:          string(state),
		Loaded:         m.cache.Loaded(),
		LoadsTotal:     m.cache.LoadCount(),
		InputSize:      m.runnerCfg.InputSize,
		Runners:        runners,
		LastError:      lastErr,
		UptimeSeconds:  int64(now.Sub(m.startTime).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
}
