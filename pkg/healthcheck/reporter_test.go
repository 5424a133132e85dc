package healthcheck

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporterReportInvokesPublisher(t *testing.T) {
	e := NewEngine(nil, 0)
	e.Register(NewTransportMonitor("simulator", 2, 4))

	var published *AggregatedResult
	r := NewReporter(e, func(_ context.Context, result *AggregatedResult) error {
		published = result
		return nil
	}, nil)

	require.NoError(t, r.Report(context.Background()))
	require.NotNil(t, published)
	assert.Equal(t, StatusHealthy, published.OverallStatus)
}

func TestReporterReportPropagatesPublishError(t *testing.T) {
	e := NewEngine(nil, 0)
	e.Register(NewTransportMonitor("simulator", 2, 4))

	boom := errors.New("broker unreachable")
	r := NewReporter(e, func(_ context.Context, _ *AggregatedResult) error {
		return boom
	}, nil)

	err := r.Report(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestReporterReportToleratesNilPublisher(t *testing.T) {
	e := NewEngine(nil, 0)
	e.Register(NewTransportMonitor("simulator", 2, 4))

	r := NewReporter(e, nil, nil)
	assert.NoError(t, r.Report(context.Background()))
}
