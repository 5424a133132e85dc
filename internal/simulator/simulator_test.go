package simulator

import (
	"testing"
	"time"

	"github.com/nexstar-alpaca/bridge/internal/nexstar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock lets tests advance simulated wall-clock time deterministically
// instead of sleeping.
type fixedClock struct{ t time.Time }

func (c *fixedClock) now() time.Time { return c.t }
func (c *fixedClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestMount() (*Mount, *fixedClock) {
	clock := &fixedClock{t: time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)}
	m := NewMount(33.5, -111.9)
	m.now = clock.now
	m.lastStep = clock.t
	m.utcdateWrittenAt = clock.t
	return m, clock
}

func TestEchoThroughCodec(t *testing.T) {
	m, _ := newTestMount()
	codec := &nexstar.Codec{Transport: m}
	assert.True(t, codec.Echo('Q').IsOk())
}

func TestModelAndVersion(t *testing.T) {
	m, _ := newTestMount()
	codec := &nexstar.Codec{Transport: m}
	assert.Equal(t, 20, codec.Model().Unwrap())
	v := codec.Version().Unwrap()
	assert.Equal(t, [2]int{1, 2}, v)
}

func TestIdleMountIsNotSlewing(t *testing.T) {
	m, _ := newTestMount()
	codec := &nexstar.Codec{Transport: m}
	r := codec.IsGotoInProgress()
	require.True(t, r.IsOk())
	assert.False(t, r.Unwrap())
}

func TestGotoStartsSlewAndSettlesOverTime(t *testing.T) {
	m, clock := newTestMount()
	codec := &nexstar.Codec{Transport: m}

	require.True(t, codec.GotoRaDe(12.0, 45.0, true).IsOk())

	inProgress := codec.IsGotoInProgress().Unwrap()
	assert.True(t, inProgress, "goto just issued should be in progress")

	// Advance simulated time far enough that the step() ramp should have
	// converged onto the target (worst case distance ~ hundreds of
	// degrees at up to 9 deg/s).
	for i := 0; i < 500; i++ {
		clock.advance(time.Second)
		m.SendCommand([]byte{'L'}, 2) // force advance() to run
	}

	inProgress = codec.IsGotoInProgress().Unwrap()
	assert.False(t, inProgress, "goto should have settled by now")
}

func TestCancelGotoStopsSlewing(t *testing.T) {
	m, _ := newTestMount()
	codec := &nexstar.Codec{Transport: m}

	require.True(t, codec.GotoRaDe(12.0, 45.0, true).IsOk())
	assert.True(t, codec.IsGotoInProgress().Unwrap())

	require.True(t, codec.CancelGoto().IsOk())
	assert.False(t, codec.IsGotoInProgress().Unwrap())
}

func TestTrackingModeRoundTrip(t *testing.T) {
	m, _ := newTestMount()
	codec := &nexstar.Codec{Transport: m}

	require.True(t, codec.SetTrackingMode(nexstar.TrackingEqNorth).IsOk())
	r := codec.GetTrackingMode()
	require.True(t, r.IsOk())
	assert.Equal(t, nexstar.TrackingEqNorth, r.Unwrap())
}

func TestLocationRoundTrip(t *testing.T) {
	m, _ := newTestMount()
	codec := &nexstar.Codec{Transport: m}

	loc := codec.GetLocation().Unwrap()
	lat, lon := loc.Decode()
	assert.InDelta(t, 33.5, lat, 0.01)
	assert.InDelta(t, -111.9, lon, 0.01)
}

func TestSlewVariableEntersMovingStateifRateNonzero(t *testing.T) {
	m, _ := newTestMount()
	codec := &nexstar.Codec{Transport: m}

	require.True(t, codec.SlewVariable(0, 1.0).IsOk())
	assert.Equal(t, stateMoving, m.state)

	require.True(t, codec.SlewVariable(0, 0).IsOk())
	assert.Equal(t, stateIdle, m.state)
}

func TestUnsupportedOpcodeErrors(t *testing.T) {
	m, _ := newTestMount()
	_, err := m.SendCommand([]byte{'?'}, 1)
	assert.Error(t, err)
}
