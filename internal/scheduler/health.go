package scheduler

import (
	"maps"
	"sync"
	"time"
)

// HealthStatus is one component's last observed state.
type HealthStatus struct {
	Healthy     bool
	LastCheck   time.Time
	LastSuccess time.Time
	Err         error
}

// Health tracks component health across generation cycles. The daemon loop
// writes; shutdown reporting reads concurrently.
type Health struct {
	mu         sync.RWMutex
	components map[string]HealthStatus
}

// NewHealth creates an empty health tracker.
func NewHealth() *Health {
	return &Health{components: make(map[string]HealthStatus)}
}

// SetHealthy records a successful check for a component.
func (h *Health) SetHealthy(component string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	s := h.components[component]
	s.Healthy = true
	s.LastCheck = now
	s.LastSuccess = now
	s.Err = nil
	h.components[component] = s
}

// SetUnhealthy records a failed check, keeping the last success time.
func (h *Health) SetUnhealthy(component string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.components[component]
	s.Healthy = false
	s.LastCheck = time.Now()
	s.Err = err
	h.components[component] = s
}

// Snapshot returns a copy of every component's status.
func (h *Health) Snapshot() map[string]HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return maps.Clone(h.components)
}

// Healthy reports whether every tracked component is healthy.
func (h *Health) Healthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, s := range h.components {
		if !s.Healthy {
			return false
		}
	}
	return true
}
