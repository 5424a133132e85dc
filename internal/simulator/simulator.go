// Package simulator implements an in-process NexStar transport that
// behaves like a real mount without any serial hardware: a small
// kinematic state machine driving right ascension/declination toward a
// commanded target, plus the full opcode set the bridge speaks.
package simulator

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/nexstar-alpaca/bridge/internal/astronomy"
	"github.com/nexstar-alpaca/bridge/internal/nexstar"
)

type state int

const (
	stateIdle state = iota
	stateSlewing
	stateMoving
)

// Mount is a nexstar.Transport backed by simulated kinematics rather than
// a serial port. Model and tracking default to values matching a
// freshly-aligned NexStar mount at the given site.
type Mount struct {
	mu sync.Mutex

	latitude, longitude float64

	rightAscension, declination               float64
	targetRightAscension, targetDeclination   float64
	slewRate                                  [2]float64 // deg/s, index 0 = RA axis, 1 = Dec axis

	trackingMode nexstar.TrackingMode
	state        state

	lastStep      time.Time
	utcDate       nexstar.UTCDate
	utcdateWrittenAt time.Time

	now func() time.Time
}

// NewMount builds a simulator seeded at the given site coordinates, idle
// at RA=0h/Dec=0deg.
func NewMount(latitude, longitude float64) *Mount {
	m := &Mount{latitude: latitude, longitude: longitude, now: time.Now}
	m.lastStep = m.now()
	m.utcdateWrittenAt = m.lastStep
	return m
}

// SendCommand implements nexstar.Transport by interpreting the one-byte
// (or pass-through) opcode directly against the simulated mount state.
// Matching the original firmware's behavior, the kinematic state is
// advanced by the elapsed wall-clock time before the command is handled,
// so every call sees an up-to-date position.
func (m *Mount) SendCommand(cmd []byte, wantLen int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.advance()

	if len(cmd) == 0 {
		return nil, fmt.Errorf("simulator: empty command")
	}

	switch cmd[0] {
	case 'K':
		if len(cmd) < 2 {
			return nil, fmt.Errorf("simulator: short echo command")
		}
		return []byte{cmd[1], '#'}, nil

	case 'V':
		return []byte{1, 2, '#'}, nil

	case 'm':
		return []byte{20, '#'}, nil

	case 'h':
		return m.encodeUTCDate(), nil

	case 'H':
		if len(cmd) < 9 {
			return nil, fmt.Errorf("simulator: short set-utc command")
		}
		m.utcDate = nexstar.UTCDate{
			Hour: cmd[1], Minute: cmd[2], Second: cmd[3],
			Month: cmd[4], Day: cmd[5], Year: cmd[6],
			GMTOffset: cmd[7], IsDST: cmd[8],
		}
		m.utcdateWrittenAt = m.now()
		return []byte{'#'}, nil

	case 'w':
		loc := nexstar.EncodeLocation(m.latitude, m.longitude)
		return []byte{loc.LatDeg, loc.LatMin, loc.LatSec, loc.IsSouth, loc.LonDeg, loc.LonMin, loc.LonSec, loc.IsWest, '#'}, nil

	case 'W':
		if len(cmd) < 9 {
			return nil, fmt.Errorf("simulator: short set-location command")
		}
		loc := nexstar.Location{
			LatDeg: cmd[1], LatMin: cmd[2], LatSec: cmd[3], IsSouth: cmd[4],
			LonDeg: cmd[5], LonMin: cmd[6], LonSec: cmd[7], IsWest: cmd[8],
		}
		m.latitude, m.longitude = loc.Decode()
		return []byte{'#'}, nil

	case 'E':
		return []byte(fmt.Sprintf("%04X,%04X#",
			nexstar.ToNexstarUnits(m.rightAscension*15, false),
			nexstar.ToNexstarUnits(m.declination, false))), nil

	case 'e':
		return []byte(fmt.Sprintf("%08X,%08X#",
			nexstar.ToNexstarUnits(m.rightAscension*15, true),
			nexstar.ToNexstarUnits(m.declination, true))), nil

	case 'Z', 'z':
		azm, alt := m.azmAlt()
		precise := cmd[0] == 'z'
		if precise {
			return []byte(fmt.Sprintf("%08X,%08X#", nexstar.ToNexstarUnits(azm, true), nexstar.ToNexstarUnits(alt, true))), nil
		}
		return []byte(fmt.Sprintf("%04X,%04X#", nexstar.ToNexstarUnits(azm, false), nexstar.ToNexstarUnits(alt, false))), nil

	case 't':
		return []byte{byte(m.trackingMode), '#'}, nil

	case 'T':
		if len(cmd) < 2 {
			return nil, fmt.Errorf("simulator: short set-tracking command")
		}
		m.trackingMode = nexstar.TrackingMode(cmd[1])
		return []byte{'#'}, nil

	case 'J':
		return []byte{1, '#'}, nil

	case 'L':
		if m.state != stateIdle {
			return []byte{'1', '#'}, nil
		}
		return []byte{'0', '#'}, nil

	case 'M':
		m.state = stateIdle
		m.targetRightAscension = m.rightAscension
		m.targetDeclination = m.declination
		return []byte{'#'}, nil

	case 'r', 'R':
		precise := cmd[0] == 'r'
		raInt, deInt, ok := scanHexPair(cmd, precise)
		if !ok {
			return nil, fmt.Errorf("simulator: malformed goto command")
		}
		m.targetRightAscension = nexstar.FromNexstarUnits(raInt, precise) / 15.0
		m.targetDeclination = nexstar.NormalizeDeclination(nexstar.FromNexstarUnits(deInt, precise))
		m.state = stateSlewing
		return []byte{'#'}, nil

	case 'b', 'B':
		precise := cmd[0] == 'b'
		azmInt, altInt, ok := scanHexPair(cmd, precise)
		if !ok {
			return nil, fmt.Errorf("simulator: malformed goto-azmalt command")
		}
		azm := nexstar.FromNexstarUnits(azmInt, precise)
		alt := nexstar.FromNexstarUnits(altInt, precise)
		lst := astronomy.ToLST(julianDay(m.now()), m.longitude)
		ra, de := astronomy.AzAltToRaDec(azm, alt, m.latitude, lst)
		m.rightAscension = ra / 15.0
		m.declination = de
		return []byte{'#'}, nil

	case 'P':
		return m.passthrough(cmd)
	}

	return nil, fmt.Errorf("simulator: unsupported opcode %q", cmd[0])
}

func (m *Mount) passthrough(cmd []byte) ([]byte, error) {
	if len(cmd) < 8 {
		return nil, fmt.Errorf("simulator: short pass-through frame")
	}
	axis, rate, ok := nexstar.DecodeSlewVariableCommand(cmd)
	if !ok {
		return []byte{'#'}, nil
	}
	m.slewRate[axis] = rate
	if rate != 0 {
		m.state = stateMoving
	} else if m.slewRate[0] == 0 && m.slewRate[1] == 0 {
		m.state = stateIdle
	}
	return []byte{'#'}, nil
}

func scanHexPair(cmd []byte, precise bool) (a, b uint32, ok bool) {
	size := 10
	if precise {
		size = 18
	}
	if len(cmd) < size-1 {
		return 0, 0, false
	}
	n, err := fmt.Sscanf(string(cmd[1:size-1]), "%x,%x", &a, &b)
	return a, b, err == nil && n == 2
}

func (m *Mount) encodeUTCDate() []byte {
	elapsed := m.now().Sub(m.utcdateWrittenAt)
	sim := m.utcDate
	sim.Second += uint8(int(elapsed.Seconds()) % 60)
	return []byte{sim.Hour, sim.Minute, sim.Second, sim.Month, sim.Day, sim.Year, sim.GMTOffset, sim.IsDST, '#'}
}

func (m *Mount) azmAlt() (azm, alt float64) {
	lst := astronomy.ToLST(julianDay(m.now()), m.longitude)
	return astronomy.RaDecToAzAlt(m.rightAscension*15, m.declination, m.latitude, lst)
}

func julianDay(t time.Time) float64 {
	t = t.UTC()
	return float64(t.Unix())/86400.0 + 2440587.5
}

// advance moves the simulated position forward by the elapsed time since
// the last call, applying whichever of the slewing/moving rules is
// active. Idle mounts are untouched.
func (m *Mount) advance() {
	now := m.now()
	dt := now.Sub(m.lastStep).Seconds()
	m.lastStep = now

	switch m.state {
	case stateIdle:
		return

	case stateSlewing:
		step(m.targetRightAscension, &m.rightAscension, dt)
		step(m.targetDeclination, &m.declination, dt)
		if m.targetRightAscension == m.rightAscension && m.targetDeclination == m.declination {
			m.state = stateIdle
		}

	case stateMoving:
		m.rightAscension += m.slewRate[0] * dt
		m.declination += m.slewRate[1] * dt
	}
}

// step advances *actual toward target at a distance-tiered rate, clamped
// symmetrically to +/-9 degrees/second, snapping exactly onto target
// once within 0.1 degrees.
func step(target float64, actual *float64, dt float64) {
	diff := target - *actual
	dist := math.Abs(diff)

	if dist <= 0.1 {
		*actual = target
		return
	}

	rate := 1.0
	switch {
	case dist <= 5:
		rate = 0.25
	case dist <= 10:
		rate = 0.50
	case dist <= 20:
		rate = 0.75
	}

	delta := diff * rate
	if delta > 9 {
		delta = 9
	}
	if delta < -9 {
		delta = -9
	}
	*actual += delta * dt
}
