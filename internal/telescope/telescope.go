// Package telescope implements the Alpaca telescope facade: capability
// bits, static metadata, dynamic connection/target state, and the
// gated methods that compose precondition checks with a driver call.
// Every API-visible operation is expressed as join(driver_call,
// ...preconditions) — the first failing precondition short-circuits
// before the driver is ever invoked.
package telescope

import (
	"sync"

	"github.com/nexstar-alpaca/bridge/internal/alpacaerr"
	"github.com/nexstar-alpaca/bridge/internal/device"
	"github.com/nexstar-alpaca/bridge/internal/result"
)

// Capability is one bit of the telescope's fixed-at-construction
// capability word.
type Capability uint32

const (
	CanFindHome Capability = 1 << iota
	CanPark
	CanPulseGuide
	CanSetDeclinationRate
	CanSetGuideRates
	CanSetPark
	CanSetPierSide
	CanSetRightAscensionRate
	CanSetTracking
	CanSlew
	CanSlewAltAz
	CanSlewAltAzAsync
	CanSlewAsync
	CanSync
	CanSyncAltAz
	CanUnpark
	CanMoveAxis0
	CanMoveAxis1
	CanMoveAxis2
)

// Has reports whether word carries capability c.
func (c Capability) Has(word Capability) bool { return word&c != 0 }

// AxisRate is a supported min/max pair for the axis-rate getter.
type AxisRate struct {
	Minimum, Maximum float64
}

// Metadata is the telescope's static, construction-time description.
// Once built it never changes and may be shared freely across handler
// goroutines.
type Metadata struct {
	Description      string
	DriverInfo       string
	DriverVersion    string
	InterfaceVersion int
	Name             string
	AlignmentMode    int
	ApertureArea     float64
	ApertureDiameter float64
	FocalLength      float64
	EquatorialSystem int
	AxisRates        []AxisRate
	TrackingRates    []int
	Capabilities     Capability
}

// Driver is the set of driver-facing operations the facade calls into
// once all preconditions for a gated operation have passed. Celestron's
// implementation lives in internal/driver.
type Driver interface {
	Altitude() result.Result[float64]
	Azimuth() result.Result[float64]
	Declination() result.Result[float64]
	RightAscension() result.Result[float64]
	SiderealTime() result.Result[float64]
	IsSlewing() result.Result[bool]
	AtHome() result.Result[bool]
	AtPark() result.Result[bool]
	IsPulseGuiding() result.Result[bool]
	DestinationSideOfPier(ra, dec float64) result.Result[int]

	GuideRateDeclination() result.Result[float64]
	SetGuideRateDeclination(v float64) result.Result[result.Unit]
	GuideRateRightAscension() result.Result[float64]
	SetGuideRateRightAscension(v float64) result.Result[result.Unit]
	DeclinationRate() result.Result[float64]
	SetDeclinationRate(v float64) result.Result[result.Unit]
	RightAscensionRate() result.Result[float64]
	SetRightAscensionRate(v float64) result.Result[result.Unit]

	Tracking() result.Result[bool]
	SetTracking(v bool) result.Result[result.Unit]
	TrackingRate() result.Result[int]
	SetTrackingRate(v int) result.Result[result.Unit]

	UTCDate() result.Result[string]

	AbortSlew() result.Result[result.Unit]
	FindHome() result.Result[result.Unit]
	MoveAxis(axis int, rateDegPerSec float64) result.Result[result.Unit]
	Park() result.Result[result.Unit]
	SetPark() result.Result[result.Unit]
	Unpark() result.Result[result.Unit]
	PulseGuide(direction, durationMs int) result.Result[result.Unit]

	SlewToAltAz(az, alt float64) result.Result[result.Unit]
	SlewToAltAzAsync(az, alt float64) result.Result[result.Unit]
	SlewToCoordinates(ra, dec float64) result.Result[result.Unit]
	SlewToCoordinatesAsync(ra, dec float64) result.Result[result.Unit]
	SlewToTarget() result.Result[result.Unit]
	SlewToTargetAsync() result.Result[result.Unit]
	SyncToAltAz(az, alt float64) result.Result[result.Unit]
	SyncToCoordinates(ra, dec float64) result.Result[result.Unit]
	SyncToTarget() result.Result[result.Unit]
}

// Telescope is the per-mount facade: static Metadata, connection state
// inherited from device.Base, and cached target RA/Dec that read as
// value_not_set until first written.
type Telescope struct {
	device.Base
	Meta   Metadata
	Driver Driver

	mu              sync.Mutex
	targetRA        float64
	targetRASet     bool
	targetDec       float64
	targetDecSet    bool

	siteElevation   float64
	siteLatitude    float64
	siteLongitude   float64
	slewSettleTime  float64
}

// New builds a facade over driver with the given static metadata.
func New(meta Metadata, driver Driver) *Telescope {
	return &Telescope{Meta: meta, Driver: driver}
}

func (t *Telescope) capability(c Capability) result.Result[result.Unit] {
	return device.CheckFlag(result.Ok(c.Has(t.Meta.Capabilities)))
}

// gate evaluates checks left to right, returning the first Err; if all
// pass, call is invoked. This is the join(driver_call, ...checks)
// pattern, generalized over the driver call's return type.
func gate[T any](call func() result.Result[T], checks ...result.Result[result.Unit]) result.Result[T] {
	for _, c := range checks {
		if c.IsErr() {
			return result.Err[T](c.Error())
		}
	}
	return call()
}

func inRange(v, lo, hi float64) bool { return v >= lo && v <= hi }

// --- simple connected-only getters ---

func (t *Telescope) Altitude() result.Result[float64] {
	return gate(t.Driver.Altitude, t.CheckConnected())
}

func (t *Telescope) Azimuth() result.Result[float64] {
	return gate(t.Driver.Azimuth, t.CheckConnected())
}

func (t *Telescope) Declination() result.Result[float64] {
	return gate(t.Driver.Declination, t.CheckConnected())
}

func (t *Telescope) RightAscension() result.Result[float64] {
	return gate(t.Driver.RightAscension, t.CheckConnected())
}

func (t *Telescope) SiderealTime() result.Result[float64] {
	return gate(t.Driver.SiderealTime, t.CheckConnected())
}

func (t *Telescope) Slewing() result.Result[bool] {
	return gate(t.Driver.IsSlewing, t.CheckConnected())
}

func (t *Telescope) AtHome() result.Result[bool] {
	return gate(t.Driver.AtHome, t.CheckConnected())
}

func (t *Telescope) AtPark() result.Result[bool] {
	return gate(t.Driver.AtPark, t.CheckConnected())
}

func (t *Telescope) IsPulseGuiding() result.Result[bool] {
	return gate(t.Driver.IsPulseGuiding, t.CheckConnected(), t.capability(CanPulseGuide))
}

func (t *Telescope) DestinationSideOfPier(ra, dec float64) result.Result[int] {
	return gate(func() result.Result[int] { return t.Driver.DestinationSideOfPier(ra, dec) }, t.CheckConnected())
}

// --- rates: getters check connected; setters check connected, then capability ---

func (t *Telescope) DeclinationRate() result.Result[float64] {
	return gate(t.Driver.DeclinationRate, t.CheckConnected())
}

func (t *Telescope) SetDeclinationRate(v float64) result.Result[result.Unit] {
	return gate(func() result.Result[result.Unit] { return t.Driver.SetDeclinationRate(v) },
		t.CheckConnected(), t.capability(CanSetDeclinationRate))
}

func (t *Telescope) RightAscensionRate() result.Result[float64] {
	return gate(t.Driver.RightAscensionRate, t.CheckConnected())
}

func (t *Telescope) SetRightAscensionRate(v float64) result.Result[result.Unit] {
	return gate(func() result.Result[result.Unit] { return t.Driver.SetRightAscensionRate(v) },
		t.CheckConnected(), t.capability(CanSetRightAscensionRate))
}

func (t *Telescope) GuideRateDeclination() result.Result[float64] {
	return gate(t.Driver.GuideRateDeclination, t.CheckConnected())
}

func (t *Telescope) SetGuideRateDeclination(v float64) result.Result[result.Unit] {
	return gate(func() result.Result[result.Unit] { return t.Driver.SetGuideRateDeclination(v) },
		t.CheckConnected(), t.capability(CanSetGuideRates))
}

func (t *Telescope) GuideRateRightAscension() result.Result[float64] {
	return gate(t.Driver.GuideRateRightAscension, t.CheckConnected())
}

func (t *Telescope) SetGuideRateRightAscension(v float64) result.Result[result.Unit] {
	return gate(func() result.Result[result.Unit] { return t.Driver.SetGuideRateRightAscension(v) },
		t.CheckConnected(), t.capability(CanSetGuideRates))
}

// --- site properties (value-range gated) ---

func (t *Telescope) SiteElevation() result.Result[float64] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return gate(func() result.Result[float64] { return result.Ok(t.siteElevation) }, t.CheckConnected())
}

func (t *Telescope) SetSiteElevation(e float64) result.Result[result.Unit] {
	return gate(func() result.Result[result.Unit] {
		t.mu.Lock()
		t.siteElevation = e
		t.mu.Unlock()
		return result.Ok(result.Unit{})
	}, t.CheckConnected(), device.CheckValue(inRange(e, -300, 10000)))
}

func (t *Telescope) SiteLatitude() result.Result[float64] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return gate(func() result.Result[float64] { return result.Ok(t.siteLatitude) }, t.CheckConnected())
}

func (t *Telescope) SetSiteLatitude(v float64) result.Result[result.Unit] {
	return gate(func() result.Result[result.Unit] {
		t.mu.Lock()
		t.siteLatitude = v
		t.mu.Unlock()
		return result.Ok(result.Unit{})
	}, t.CheckConnected(), device.CheckValue(inRange(v, -90, 90)))
}

func (t *Telescope) SiteLongitude() result.Result[float64] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return gate(func() result.Result[float64] { return result.Ok(t.siteLongitude) }, t.CheckConnected())
}

func (t *Telescope) SetSiteLongitude(v float64) result.Result[result.Unit] {
	return gate(func() result.Result[result.Unit] {
		t.mu.Lock()
		t.siteLongitude = v
		t.mu.Unlock()
		return result.Ok(result.Unit{})
	}, t.CheckConnected(), device.CheckValue(inRange(v, -180, 180)))
}

func (t *Telescope) SlewSettleTime() result.Result[float64] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return gate(func() result.Result[float64] { return result.Ok(t.slewSettleTime) }, t.CheckConnected())
}

func (t *Telescope) SetSlewSettleTime(v float64) result.Result[result.Unit] {
	return gate(func() result.Result[result.Unit] {
		t.mu.Lock()
		t.slewSettleTime = v
		t.mu.Unlock()
		return result.Ok(result.Unit{})
	}, t.CheckConnected(), device.CheckValue(v >= 0))
}

// --- target coordinates: write-then-read-back "unset" semantics ---

func (t *Telescope) SetTargetDeclination(v float64) result.Result[result.Unit] {
	return gate(func() result.Result[result.Unit] {
		t.mu.Lock()
		t.targetDec, t.targetDecSet = v, true
		t.mu.Unlock()
		return result.Ok(result.Unit{})
	}, t.CheckConnected(), device.CheckValue(inRange(v, -90, 90)))
}

func (t *Telescope) TargetDeclination() result.Result[float64] {
	t.mu.Lock()
	v, set := t.targetDec, t.targetDecSet
	t.mu.Unlock()
	return gate(func() result.Result[float64] { return result.Ok(v) },
		t.CheckConnected(), device.CheckSet(set))
}

func (t *Telescope) SetTargetRightAscension(v float64) result.Result[result.Unit] {
	return gate(func() result.Result[result.Unit] {
		t.mu.Lock()
		t.targetRA, t.targetRASet = v, true
		t.mu.Unlock()
		return result.Ok(result.Unit{})
	}, t.CheckConnected(), device.CheckValue(inRange(v, 0, 24)))
}

func (t *Telescope) TargetRightAscension() result.Result[float64] {
	t.mu.Lock()
	v, set := t.targetRA, t.targetRASet
	t.mu.Unlock()
	return gate(func() result.Result[float64] { return result.Ok(v) },
		t.CheckConnected(), device.CheckSet(set))
}

// --- tracking ---

func (t *Telescope) Tracking() result.Result[bool] {
	return gate(t.Driver.Tracking, t.CheckConnected())
}

func (t *Telescope) SetTracking(v bool) result.Result[result.Unit] {
	return gate(func() result.Result[result.Unit] { return t.Driver.SetTracking(v) }, t.CheckConnected())
}

func (t *Telescope) TrackingRate() result.Result[int] {
	return gate(t.Driver.TrackingRate, t.CheckConnected())
}

func (t *Telescope) SetTrackingRate(v int) result.Result[result.Unit] {
	return gate(func() result.Result[result.Unit] { return t.Driver.SetTrackingRate(v) },
		t.CheckConnected(), device.CheckValue(v >= 0 && v <= 3))
}

func (t *Telescope) UTCDate() result.Result[string] {
	return gate(t.Driver.UTCDate, t.CheckConnected())
}

// --- motion ---

func (t *Telescope) AbortSlew() result.Result[result.Unit] {
	return gate(t.Driver.AbortSlew, t.CheckConnected())
}

func (t *Telescope) FindHome() result.Result[result.Unit] {
	return gate(t.Driver.FindHome, t.CheckConnected(), t.capability(CanFindHome))
}

func (t *Telescope) MoveAxis(axis int, rate float64) result.Result[result.Unit] {
	axisCap := CanMoveAxis0
	switch axis {
	case 1:
		axisCap = CanMoveAxis1
	case 2:
		axisCap = CanMoveAxis2
	}
	return gate(func() result.Result[result.Unit] { return t.Driver.MoveAxis(axis, rate) },
		t.CheckConnected(),
		device.CheckValue(axis >= 0 && axis <= 2),
		t.capability(axisCap),
		device.CheckValue(rate > -9 && rate < 9),
	)
}

func (t *Telescope) Park() result.Result[result.Unit] {
	return gate(t.Driver.Park, t.CheckConnected(), t.capability(CanPark))
}

func (t *Telescope) SetPark() result.Result[result.Unit] {
	return gate(t.Driver.SetPark, t.CheckConnected(), t.capability(CanSetPark))
}

func (t *Telescope) Unpark() result.Result[result.Unit] {
	return gate(t.Driver.Unpark, t.CheckConnected(), t.capability(CanUnpark))
}

func (t *Telescope) PulseGuide(direction, durationMs int) result.Result[result.Unit] {
	return gate(func() result.Result[result.Unit] { return t.Driver.PulseGuide(direction, durationMs) },
		t.CheckConnected(), t.capability(CanPulseGuide))
}

func (t *Telescope) SlewToAltAz(az, alt float64) result.Result[result.Unit] {
	return gate(func() result.Result[result.Unit] { return t.Driver.SlewToAltAz(az, alt) },
		t.CheckConnected(), t.capability(CanSlewAltAz),
		device.CheckValue(inRange(az, 0, 360)), device.CheckValue(inRange(alt, -90, 90)))
}

func (t *Telescope) SlewToAltAzAsync(az, alt float64) result.Result[result.Unit] {
	return gate(func() result.Result[result.Unit] { return t.Driver.SlewToAltAzAsync(az, alt) },
		t.CheckConnected(), t.capability(CanSlewAltAzAsync),
		device.CheckValue(inRange(az, 0, 360)), device.CheckValue(inRange(alt, -90, 90)))
}

func (t *Telescope) SlewToCoordinates(ra, dec float64) result.Result[result.Unit] {
	return gate(func() result.Result[result.Unit] { return t.Driver.SlewToCoordinates(ra, dec) },
		t.CheckConnected(), t.capability(CanSlew),
		device.CheckValue(inRange(ra, 0, 24)), device.CheckValue(inRange(dec, -90, 90)))
}

func (t *Telescope) SlewToCoordinatesAsync(ra, dec float64) result.Result[result.Unit] {
	return gate(func() result.Result[result.Unit] { return t.Driver.SlewToCoordinatesAsync(ra, dec) },
		t.CheckConnected(), t.capability(CanSlewAsync),
		device.CheckValue(inRange(ra, 0, 24)), device.CheckValue(inRange(dec, -90, 90)))
}

func (t *Telescope) SlewToTarget() result.Result[result.Unit] {
	return gate(t.Driver.SlewToTarget, t.CheckConnected(), t.capability(CanSlew))
}

func (t *Telescope) SlewToTargetAsync() result.Result[result.Unit] {
	return gate(t.Driver.SlewToTargetAsync, t.CheckConnected(), t.capability(CanSlewAsync))
}

func (t *Telescope) SyncToAltAz(az, alt float64) result.Result[result.Unit] {
	return gate(func() result.Result[result.Unit] { return t.Driver.SyncToAltAz(az, alt) },
		t.CheckConnected(), t.capability(CanSyncAltAz),
		device.CheckValue(inRange(az, 0, 360)), device.CheckValue(inRange(alt, -90, 90)))
}

func (t *Telescope) SyncToCoordinates(ra, dec float64) result.Result[result.Unit] {
	return gate(func() result.Result[result.Unit] { return t.Driver.SyncToCoordinates(ra, dec) },
		t.CheckConnected(), t.capability(CanSync),
		device.CheckValue(inRange(ra, 0, 24)), device.CheckValue(inRange(dec, -90, 90)))
}

// SyncToTarget requires, beyond connected+can_sync, that the mount is
// not currently parked — the one gated operation whose precondition
// list includes a state check besides connectivity and capability.
func (t *Telescope) SyncToTarget() result.Result[result.Unit] {
	notParked := func() result.Result[result.Unit] {
		parked, ok := t.Driver.AtPark().Value()
		if ok && parked {
			return result.Err[result.Unit](alpacaerr.Parked())
		}
		return result.Ok(result.Unit{})
	}
	return gate(t.Driver.SyncToTarget, t.CheckConnected(), notParked(), t.capability(CanSync))
}

// AxisRates validates the requested axis and returns the statically
// declared {min,max} pairs (the same list regardless of axis, matching
// the single-range default configuration).
func (t *Telescope) AxisRates(axis int) result.Result[[]AxisRate] {
	if axis < 0 || axis > 2 {
		return result.Err[[]AxisRate](alpacaerr.InvalidValue())
	}
	return result.Ok(t.Meta.AxisRates)
}
