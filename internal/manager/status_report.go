package manager

import "reflectd/pkg/types"

type modelCounter interface{ Len() int }

// Status builds a detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	now := timeNow()
	m.cache.mu.RLock()
	lastErr := m.cache.lastErr
	m.cache.mu.RUnlock()
	resp := types.StatusResponse{
		Pipelines:       m.cache.Loaded(),
		Overrides:       m.overrides.IDs(),
		LastError:       lastErr,
		LoadsTotal:      uint64(m.cache.loadsTotal.Load()),
		LoadErrorsTotal: uint64(m.cache.loadErrorsTotal.Load()),
		LoadsInProgress: int(m.cache.inProgress.Load()),
		UptimeSeconds:   int64(now.Sub(m.startTime).Seconds()),
		ServerTimeUnix:  now.Unix(),
	}
	if mc, ok := m.registry.(modelCounter); ok {
		resp.Models = mc.Len()
	}
	return resp
}
