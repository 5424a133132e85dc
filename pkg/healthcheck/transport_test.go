package healthcheck

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransportMonitorStartsHealthy(t *testing.T) {
	m := NewTransportMonitor("simulator", 2, 4)
	assert.Equal(t, "simulator", m.Name())

	r := m.Check(context.Background())
	assert.Equal(t, StatusHealthy, r.Status)
	assert.Equal(t, 0, r.Details["consecutive_failures"])
}

func TestTransportMonitorDegradesThenGoesUnhealthy(t *testing.T) {
	m := NewTransportMonitor("simulator", 2, 4)
	failure := errors.New("timeout")

	m.Record(failure)
	assert.Equal(t, StatusHealthy, m.Check(context.Background()).Status, "one failure is below the degraded threshold")

	m.Record(failure)
	r := m.Check(context.Background())
	assert.Equal(t, StatusDegraded, r.Status)
	assert.Equal(t, "timeout", r.Message)

	m.Record(failure)
	m.Record(failure)
	r = m.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, r.Status)
	assert.Equal(t, 4, r.Details["consecutive_failures"])
}

func TestTransportMonitorRecoversOnSuccess(t *testing.T) {
	m := NewTransportMonitor("simulator", 1, 2)
	m.Record(errors.New("boom"))
	m.Record(errors.New("boom"))
	assert.Equal(t, StatusUnhealthy, m.Check(context.Background()).Status)

	m.Record(nil)
	r := m.Check(context.Background())
	assert.Equal(t, StatusHealthy, r.Status)
	assert.Equal(t, "", r.Message)
	assert.Equal(t, 0, r.Details["consecutive_failures"])
}
