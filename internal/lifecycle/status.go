package lifecycle

import (
	"time"

	"github.com/shirou/gopsutil/v4/mem"
)

// Status returns a consistent snapshot of the manager state. It never
// blocks behind a load or generation: memory telemetry is collected before
// the short state critical section, and degrades to zeros when the host
// query fails.
func (m *Manager) Status() StatusSnapshot {
	var usedMB, totalMB int
	if vm, err := mem.VirtualMemory(); err == nil {
		usedMB = int(vm.Used / (1024 * 1024))
		totalMB = int(vm.Total / (1024 * 1024))
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return StatusSnapshot{
		Available:        m.state == StateReady && m.handle != nil,
		Loading:          m.loading,
		CurrentModel:     m.current,
		LastError:        m.lastErr,
		DeviceMemUsedMB:  usedMB,
		DeviceMemTotalMB: totalMB,
		UptimeSeconds:    int64(time.Since(m.started) / time.Second),
		LoadsTotal:       m.loads,
	}
}

// StateSnapshot returns just the lifecycle state and current model id.
func (m *Manager) StateSnapshot() (State, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state, m.current
}
