package healthcheck

import (
	"context"
	"sync"
)

// TransportMonitor is a Checker over the bridge's NexStar wire
// transport (serial port or simulator): it tracks the number of
// consecutive failed commands and reports StatusDegraded /
// StatusUnhealthy once configured thresholds are crossed, independent
// of the Alpaca client's own Connected state.
type TransportMonitor struct {
	mu             sync.Mutex
	name           string
	consecutive    int
	lastErr        error
	degradedAfter  int
	unhealthyAfter int
}

// NewTransportMonitor builds a monitor named after the transport it
// watches (a serial device path, or "simulator").
func NewTransportMonitor(name string, degradedAfter, unhealthyAfter int) *TransportMonitor {
	return &TransportMonitor{name: name, degradedAfter: degradedAfter, unhealthyAfter: unhealthyAfter}
}

// Name implements Checker.
func (m *TransportMonitor) Name() string { return m.name }

// Record updates the failure streak after a wire round trip. A nil err
// resets it to zero.
func (m *TransportMonitor) Record(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		m.consecutive = 0
		m.lastErr = nil
		return
	}
	m.consecutive++
	m.lastErr = err
}

// Check implements Checker.
func (m *TransportMonitor) Check(_ context.Context) *Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := StatusHealthy
	msg := ""
	switch {
	case m.consecutive >= m.unhealthyAfter:
		status = StatusUnhealthy
	case m.consecutive >= m.degradedAfter:
		status = StatusDegraded
	}
	if m.lastErr != nil {
		msg = m.lastErr.Error()
	}

	return &Result{
		ComponentName: m.name,
		Status:        status,
		Message:       msg,
		Details:       map[string]interface{}{"consecutive_failures": m.consecutive},
	}
}
