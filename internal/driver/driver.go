// Package driver implements the Celestron NexStar driver: the concrete
// telescope.Driver that turns facade-level calls into NexStar wire
// commands via internal/nexstar's codec.
package driver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nexstar-alpaca/bridge/internal/astronomy"
	"github.com/nexstar-alpaca/bridge/internal/device"
	"github.com/nexstar-alpaca/bridge/internal/nexstar"
	"github.com/nexstar-alpaca/bridge/internal/result"
	"github.com/nexstar-alpaca/bridge/pkg/healthcheck"
)

// Celestron drives a NexStar mount through codec. It caches the last
// commanded slew target; the site location is not cached and is read
// from the mount ('w') on every call that needs it.
type Celestron struct {
	codec  *nexstar.Codec
	health *healthcheck.TransportMonitor

	mu         sync.Mutex
	precise    bool
	trackingRate int

	targetRA, targetDec float64

	declinationRate        float64
	rightAscensionRate     float64
	guideRateDeclination   float64
	guideRateRightAscension float64
}

// New builds a Celestron driver over the given codec. precise selects
// the 32-bit angle encoding for every wire command that supports both
// widths; false uses the 16-bit coarse encoding. health is the monitor
// HealthCheck reports from; the driver never calls Record on it itself.
// nil makes HealthCheck report StatusUnknown.
func New(codec *nexstar.Codec, precise bool, health *healthcheck.TransportMonitor) *Celestron {
	return &Celestron{codec: codec, precise: precise, health: health}
}

// HealthCheck reports the mount transport's current status, derived
// from its recent consecutive-failure streak. It is consumed by the
// systemd wrapper / operator tooling, not the Alpaca API surface.
func (c *Celestron) HealthCheck(ctx context.Context) *healthcheck.Result {
	if c.health == nil {
		return &healthcheck.Result{ComponentName: healthcheck.TransportComponentName, Status: healthcheck.StatusUnknown}
	}
	return c.health.Check(ctx)
}

func (c *Celestron) now() time.Time { return time.Now() }

func (c *Celestron) location() (lat, lon float64, ok bool) {
	loc, isOk := c.codec.GetLocation().Value()
	if !isOk {
		return 0, 0, false
	}
	la, lo := loc.Decode()
	return la, lo, true
}

// Model returns the human-readable name for the mount's model code.
func (c *Celestron) Model() result.Result[string] {
	return result.Map(c.codec.Model(), nexstar.ModelName)
}

func (c *Celestron) Altitude() result.Result[float64] {
	return result.Map(c.codec.AzmAlt(c.precise), func(v [2]float64) float64 { return v[1] })
}

func (c *Celestron) Azimuth() result.Result[float64] {
	return result.Map(c.codec.AzmAlt(c.precise), func(v [2]float64) float64 { return v[0] })
}

func (c *Celestron) Declination() result.Result[float64] {
	return result.Map(c.codec.RaDe(c.precise), func(v [2]float64) float64 { return v[1] })
}

func (c *Celestron) RightAscension() result.Result[float64] {
	return result.Map(c.codec.RaDe(c.precise), func(v [2]float64) float64 { return v[0] })
}

// SiderealTime computes local sidereal time via the astronomy helper,
// reading the mount's configured site location, and divides degrees by
// 15 to convert to hours.
func (c *Celestron) SiderealTime() result.Result[float64] {
	_, lon, ok := c.location()
	if !ok {
		return result.Err[float64](device.CheckOp(false).Error())
	}
	lst := astronomy.ToLST(julianDay(c.now()), lon)
	return result.Ok(lst / 15.0)
}

func julianDay(t time.Time) float64 {
	t = t.UTC()
	return float64(t.Unix())/86400.0 + 2440587.5
}

func (c *Celestron) IsSlewing() result.Result[bool] {
	return c.codec.IsGotoInProgress()
}

func (c *Celestron) AtHome() result.Result[bool] {
	return result.Ok(false)
}

func (c *Celestron) AtPark() result.Result[bool] {
	return result.Ok(false)
}

func (c *Celestron) IsPulseGuiding() result.Result[bool] {
	return result.Ok(false)
}

func (c *Celestron) DestinationSideOfPier(ra, dec float64) result.Result[int] {
	return result.Ok(0)
}

func (c *Celestron) DeclinationRate() result.Result[float64] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return result.Ok(c.declinationRate)
}

func (c *Celestron) SetDeclinationRate(v float64) result.Result[result.Unit] {
	c.mu.Lock()
	c.declinationRate = v
	c.mu.Unlock()
	return result.Ok(result.Unit{})
}

func (c *Celestron) RightAscensionRate() result.Result[float64] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return result.Ok(c.rightAscensionRate)
}

func (c *Celestron) SetRightAscensionRate(v float64) result.Result[result.Unit] {
	c.mu.Lock()
	c.rightAscensionRate = v
	c.mu.Unlock()
	return result.Ok(result.Unit{})
}

func (c *Celestron) GuideRateDeclination() result.Result[float64] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return result.Ok(c.guideRateDeclination)
}

func (c *Celestron) SetGuideRateDeclination(v float64) result.Result[result.Unit] {
	c.mu.Lock()
	c.guideRateDeclination = v
	c.mu.Unlock()
	return result.Ok(result.Unit{})
}

func (c *Celestron) GuideRateRightAscension() result.Result[float64] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return result.Ok(c.guideRateRightAscension)
}

func (c *Celestron) SetGuideRateRightAscension(v float64) result.Result[result.Unit] {
	c.mu.Lock()
	c.guideRateRightAscension = v
	c.mu.Unlock()
	return result.Ok(result.Unit{})
}

// Tracking maps any non-off mode to true.
func (c *Celestron) Tracking() result.Result[bool] {
	return result.Map(c.codec.GetTrackingMode(), func(m nexstar.TrackingMode) bool { return m != nexstar.TrackingOff })
}

// SetTracking uses eq_north for true, off for false.
func (c *Celestron) SetTracking(v bool) result.Result[result.Unit] {
	mode := nexstar.TrackingOff
	if v {
		mode = nexstar.TrackingEqNorth
	}
	return c.codec.SetTrackingMode(mode)
}

func (c *Celestron) TrackingRate() result.Result[int] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return result.Ok(c.trackingRate)
}

func (c *Celestron) SetTrackingRate(v int) result.Result[result.Unit] {
	c.mu.Lock()
	c.trackingRate = v
	c.mu.Unlock()
	return result.Ok(result.Unit{})
}

func (c *Celestron) UTCDate() result.Result[string] {
	return result.Map(c.codec.GetUTCDate(), func(u nexstar.UTCDate) string {
		return fmt.Sprintf("20%02d-%02d-%02dT%02d:%02d:%02d", u.Year, u.Month, u.Day, u.Hour, u.Minute, u.Second)
	})
}

func (c *Celestron) AbortSlew() result.Result[result.Unit] {
	return c.codec.CancelGoto()
}

func (c *Celestron) FindHome() result.Result[result.Unit] {
	return result.Err[result.Unit](notImplementedErr())
}

func (c *Celestron) MoveAxis(axis int, rate float64) result.Result[result.Unit] {
	return c.codec.SlewVariable(axis, rate)
}

func (c *Celestron) Park() result.Result[result.Unit] {
	return result.Err[result.Unit](notImplementedErr())
}

func (c *Celestron) SetPark() result.Result[result.Unit] {
	return result.Err[result.Unit](notImplementedErr())
}

func (c *Celestron) Unpark() result.Result[result.Unit] {
	return result.Err[result.Unit](notImplementedErr())
}

func (c *Celestron) PulseGuide(direction, durationMs int) result.Result[result.Unit] {
	return result.Err[result.Unit](notImplementedErr())
}

func (c *Celestron) SlewToAltAz(az, alt float64) result.Result[result.Unit] {
	r := c.codec.GotoAzmAlt(az, alt, c.precise)
	if r.IsErr() {
		return r
	}
	return c.waitForGoto()
}

func (c *Celestron) SlewToAltAzAsync(az, alt float64) result.Result[result.Unit] {
	return c.codec.GotoAzmAlt(az, alt, c.precise)
}

func (c *Celestron) SlewToCoordinates(ra, dec float64) result.Result[result.Unit] {
	c.cacheTarget(ra, dec)
	r := c.codec.GotoRaDe(ra, dec, c.precise)
	if r.IsErr() {
		return r
	}
	return c.waitForGoto()
}

// SlewToCoordinatesAsync caches (ra, dec) as the current target before
// issuing the wire goto.
func (c *Celestron) SlewToCoordinatesAsync(ra, dec float64) result.Result[result.Unit] {
	c.cacheTarget(ra, dec)
	return c.codec.GotoRaDe(ra, dec, c.precise)
}

func (c *Celestron) SlewToTarget() result.Result[result.Unit] {
	ra, dec := c.cachedTarget()
	return c.SlewToCoordinates(ra, dec)
}

func (c *Celestron) SlewToTargetAsync() result.Result[result.Unit] {
	ra, dec := c.cachedTarget()
	return c.codec.GotoRaDe(ra, dec, c.precise)
}

// SyncToAltAz and SyncToCoordinates alias the equivalent goto: the wire
// subset exposed here has no distinct "announce position" opcode, only
// "slew to". This mirrors the one wire behavior the original firmware
// actually exercises for sync.
func (c *Celestron) SyncToAltAz(az, alt float64) result.Result[result.Unit] {
	return c.codec.GotoAzmAlt(az, alt, c.precise)
}

func (c *Celestron) SyncToCoordinates(ra, dec float64) result.Result[result.Unit] {
	c.cacheTarget(ra, dec)
	return c.codec.GotoRaDe(ra, dec, c.precise)
}

func (c *Celestron) SyncToTarget() result.Result[result.Unit] {
	ra, dec := c.cachedTarget()
	return c.codec.GotoRaDe(ra, dec, c.precise)
}

func (c *Celestron) cacheTarget(ra, dec float64) {
	c.mu.Lock()
	c.targetRA, c.targetDec = ra, dec
	c.mu.Unlock()
}

func (c *Celestron) cachedTarget() (ra, dec float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.targetRA, c.targetDec
}

// waitForGoto polls goto-in-progress until it clears, realizing the
// synchronous slew methods on top of the async wire opcode (the NexStar
// protocol has no blocking slew command of its own).
func (c *Celestron) waitForGoto() result.Result[result.Unit] {
	for {
		inProgress, ok := c.codec.IsGotoInProgress().Value()
		if !ok {
			return result.Err[result.Unit](device.CheckOp(false).Error())
		}
		if !inProgress {
			return result.Ok(result.Unit{})
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func notImplementedErr() error {
	return device.CheckFlag(result.Ok(false)).Error()
}
