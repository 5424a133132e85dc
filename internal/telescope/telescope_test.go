package telescope

import (
	"testing"

	"github.com/nexstar-alpaca/bridge/internal/alpacaerr"
	"github.com/nexstar-alpaca/bridge/internal/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDriver is a minimal Driver stub: every method returns a canned
// success so tests can focus on the facade's gating logic, not the
// driver's own behavior.
type fakeDriver struct {
	slewed   bool
	synced   bool
	tracking bool
	atPark   bool
}

func (f *fakeDriver) Altitude() result.Result[float64]       { return result.Ok(45.0) }
func (f *fakeDriver) Azimuth() result.Result[float64]        { return result.Ok(180.0) }
func (f *fakeDriver) Declination() result.Result[float64]    { return result.Ok(10.0) }
func (f *fakeDriver) RightAscension() result.Result[float64] { return result.Ok(5.0) }
func (f *fakeDriver) SiderealTime() result.Result[float64]   { return result.Ok(1.0) }
func (f *fakeDriver) IsSlewing() result.Result[bool]         { return result.Ok(f.slewed) }
func (f *fakeDriver) AtHome() result.Result[bool]            { return result.Ok(false) }
func (f *fakeDriver) AtPark() result.Result[bool]            { return result.Ok(f.atPark) }
func (f *fakeDriver) IsPulseGuiding() result.Result[bool]    { return result.Ok(false) }
func (f *fakeDriver) DestinationSideOfPier(ra, dec float64) result.Result[int] {
	return result.Ok(0)
}
func (f *fakeDriver) GuideRateDeclination() result.Result[float64]    { return result.Ok(0.5) }
func (f *fakeDriver) SetGuideRateDeclination(v float64) result.Result[result.Unit] {
	return result.Ok(result.Unit{})
}
func (f *fakeDriver) GuideRateRightAscension() result.Result[float64] { return result.Ok(0.5) }
func (f *fakeDriver) SetGuideRateRightAscension(v float64) result.Result[result.Unit] {
	return result.Ok(result.Unit{})
}
func (f *fakeDriver) DeclinationRate() result.Result[float64] { return result.Ok(0.0) }
func (f *fakeDriver) SetDeclinationRate(v float64) result.Result[result.Unit] {
	return result.Ok(result.Unit{})
}
func (f *fakeDriver) RightAscensionRate() result.Result[float64] { return result.Ok(0.0) }
func (f *fakeDriver) SetRightAscensionRate(v float64) result.Result[result.Unit] {
	return result.Ok(result.Unit{})
}
func (f *fakeDriver) Tracking() result.Result[bool] { return result.Ok(f.tracking) }
func (f *fakeDriver) SetTracking(v bool) result.Result[result.Unit] {
	f.tracking = v
	return result.Ok(result.Unit{})
}
func (f *fakeDriver) TrackingRate() result.Result[int] { return result.Ok(0) }
func (f *fakeDriver) SetTrackingRate(v int) result.Result[result.Unit] {
	return result.Ok(result.Unit{})
}
func (f *fakeDriver) UTCDate() result.Result[string] { return result.Ok("2026-08-03T00:00:00") }
func (f *fakeDriver) AbortSlew() result.Result[result.Unit] { return result.Ok(result.Unit{}) }
func (f *fakeDriver) FindHome() result.Result[result.Unit]  { return result.Ok(result.Unit{}) }
func (f *fakeDriver) MoveAxis(axis int, rate float64) result.Result[result.Unit] {
	return result.Ok(result.Unit{})
}
func (f *fakeDriver) Park() result.Result[result.Unit]   { return result.Ok(result.Unit{}) }
func (f *fakeDriver) SetPark() result.Result[result.Unit] { return result.Ok(result.Unit{}) }
func (f *fakeDriver) Unpark() result.Result[result.Unit]  { return result.Ok(result.Unit{}) }
func (f *fakeDriver) PulseGuide(direction, durationMs int) result.Result[result.Unit] {
	return result.Ok(result.Unit{})
}
func (f *fakeDriver) SlewToAltAz(az, alt float64) result.Result[result.Unit] {
	f.slewed = true
	return result.Ok(result.Unit{})
}
func (f *fakeDriver) SlewToAltAzAsync(az, alt float64) result.Result[result.Unit] {
	f.slewed = true
	return result.Ok(result.Unit{})
}
func (f *fakeDriver) SlewToCoordinates(ra, dec float64) result.Result[result.Unit] {
	f.slewed = true
	return result.Ok(result.Unit{})
}
func (f *fakeDriver) SlewToCoordinatesAsync(ra, dec float64) result.Result[result.Unit] {
	f.slewed = true
	return result.Ok(result.Unit{})
}
func (f *fakeDriver) SlewToTarget() result.Result[result.Unit] {
	f.slewed = true
	return result.Ok(result.Unit{})
}
func (f *fakeDriver) SlewToTargetAsync() result.Result[result.Unit] {
	f.slewed = true
	return result.Ok(result.Unit{})
}
func (f *fakeDriver) SyncToAltAz(az, alt float64) result.Result[result.Unit] {
	f.synced = true
	return result.Ok(result.Unit{})
}
func (f *fakeDriver) SyncToCoordinates(ra, dec float64) result.Result[result.Unit] {
	f.synced = true
	return result.Ok(result.Unit{})
}
func (f *fakeDriver) SyncToTarget() result.Result[result.Unit] {
	f.synced = true
	return result.Ok(result.Unit{})
}

func newTestScope(caps Capability) (*Telescope, *fakeDriver) {
	drv := &fakeDriver{}
	scope := New(Metadata{Capabilities: caps, AxisRates: []AxisRate{{Minimum: 0, Maximum: 9}}}, drv)
	return scope, drv
}

func TestNotConnectedShortCircuits(t *testing.T) {
	scope, _ := newTestScope(CanSlew)
	r := scope.Altitude()
	require.True(t, r.IsErr())

	r2 := scope.SlewToCoordinates(5, 10)
	require.True(t, r2.IsErr())
}

func TestConnectedGettersPassThrough(t *testing.T) {
	scope, _ := newTestScope(0)
	scope.SetConnected(true)

	assert.Equal(t, 45.0, scope.Altitude().Unwrap())
	assert.Equal(t, 180.0, scope.Azimuth().Unwrap())
}

func TestCapabilityGating(t *testing.T) {
	scope, drv := newTestScope(0) // no capabilities granted
	scope.SetConnected(true)

	r := scope.SlewToCoordinates(5, 10)
	assert.True(t, r.IsErr(), "CanSlew not granted")
	assert.False(t, drv.slewed)

	scope2, drv2 := newTestScope(CanSlew)
	scope2.SetConnected(true)
	r2 := scope2.SlewToCoordinates(5, 10)
	assert.True(t, r2.IsOk())
	assert.True(t, drv2.slewed)
}

func TestSlewToCoordinatesRangeValidation(t *testing.T) {
	scope, _ := newTestScope(CanSlew)
	scope.SetConnected(true)

	assert.True(t, scope.SlewToCoordinates(-1, 10).IsErr(), "RA below 0")
	assert.True(t, scope.SlewToCoordinates(25, 10).IsErr(), "RA above 24")
	assert.True(t, scope.SlewToCoordinates(5, 91).IsErr(), "Dec above 90")
	assert.True(t, scope.SlewToCoordinates(5, 10).IsOk())
}

func TestTargetCoordinatesUnsetUntilWritten(t *testing.T) {
	scope, _ := newTestScope(0)
	scope.SetConnected(true)

	r := scope.TargetRightAscension()
	assert.True(t, r.IsErr(), "reading before any write yields value_not_set")

	require.True(t, scope.SetTargetRightAscension(12.5).IsOk())
	assert.Equal(t, 12.5, scope.TargetRightAscension().Unwrap())

	assert.True(t, scope.SetTargetRightAscension(25).IsErr(), "out of range")
}

func TestSiteLatitudeRangeValidation(t *testing.T) {
	scope, _ := newTestScope(0)
	scope.SetConnected(true)

	assert.True(t, scope.SetSiteLatitude(91).IsErr())
	assert.True(t, scope.SetSiteLatitude(-91).IsErr())
	require.True(t, scope.SetSiteLatitude(45).IsOk())
	assert.Equal(t, 45.0, scope.SiteLatitude().Unwrap())
}

func TestSyncToTargetRespectsParked(t *testing.T) {
	scope, drv := newTestScope(CanSync)
	scope.SetConnected(true)

	r := scope.SyncToTarget()
	assert.True(t, r.IsOk(), "not parked by default")

	drv.atPark = true
	r = scope.SyncToTarget()
	require.True(t, r.IsErr(), "parked mount must reject SyncToTarget")
	ae := r.Error().(alpacaerr.Error)
	assert.Equal(t, alpacaerr.KindParked, ae.Kind)
}

func TestAxisRatesValidatesAxis(t *testing.T) {
	scope, _ := newTestScope(0)
	assert.True(t, scope.AxisRates(0).IsOk())
	assert.True(t, scope.AxisRates(3).IsErr())
}
