// Package nexstar implements the Celestron NexStar serial wire codec: the
// byte-level encode/decode helpers for every command this bridge speaks,
// independent of where the bytes actually travel (serial port or
// simulator). Every NexStar response is terminated by a '#' sentinel;
// framing failures translate to invalid_operation at the caller.
package nexstar

import (
	"fmt"

	"github.com/nexstar-alpaca/bridge/internal/alpacaerr"
	"github.com/nexstar-alpaca/bridge/internal/result"
)

// Transport is the single abstraction the codec needs: write a command,
// read exactly wantLen response bytes back (or fewer, on failure). A
// real serial port and the in-process simulator both implement it.
type Transport interface {
	SendCommand(cmd []byte, wantLen int) ([]byte, error)
}

// TrackingMode mirrors the one-byte tracking_mode_kind enum on the wire.
type TrackingMode uint8

const (
	TrackingOff     TrackingMode = 0
	TrackingAltAzm  TrackingMode = 1
	TrackingEqNorth TrackingMode = 2
	TrackingEqSouth TrackingMode = 3
)

// DeviceKind identifies a pass-through sub-device.
type DeviceKind uint8

const (
	DeviceAzmMotor DeviceKind = 16
	DeviceAltMotor DeviceKind = 17
	DeviceGPS      DeviceKind = 176
	DeviceRTC      DeviceKind = 178
)

// Pass-through command bytes. positive/negative map to the SIGN of the
// requested rate, matching the bridge's documented wire contract rather
// than the inverted mapping some historical driver revisions carried.
const (
	cmdSlewVariablePositive = 6
	cmdSlewVariableNegative = 7
	cmdSlewFixedPositive    = 36
	cmdSlewFixedNegative    = 37
)

func failOp() result.Result[result.Unit] { return result.Err[result.Unit](alpacaerr.InvalidOperation()) }

// ToNexstarUnits converts a decimal-degree angle in [0,360) to its
// NexStar fixed-point representation: 32 bits precise (2^32/360 per
// degree) or 16 bits coarse (2^16/360 per degree).
func ToNexstarUnits(angleDeg float64, precise bool) uint32 {
	angleDeg = mod360(angleDeg)
	if precise {
		return uint32(angleDeg * (4294967296.0 / 360.0))
	}
	return uint32(angleDeg*(65536.0/360.0)) & 0xFFFF
}

// FromNexstarUnits is the inverse of ToNexstarUnits.
func FromNexstarUnits(value uint32, precise bool) float64 {
	if precise {
		return float64(value) * (360.0 / 4294967296.0)
	}
	return float64(value) * (360.0 / 65536.0)
}

func mod360(deg float64) float64 {
	for deg < 0 {
		deg += 360
	}
	for deg >= 360 {
		deg -= 360
	}
	return deg
}

// NormalizeDeclination folds an angle expressed on the [0,360) wire
// convention into true declination range [-90,+90]: values in (90,270]
// mirror to 180-x, values in (270,360] wrap to x-360.
func NormalizeDeclination(angleDeg float64) float64 {
	angleDeg = mod360(angleDeg)
	if angleDeg > 90 && angleDeg <= 270 {
		return 180 - angleDeg
	}
	if angleDeg > 270 && angleDeg <= 360 {
		return angleDeg - 360
	}
	return angleDeg
}

// Location is the 8-byte get/set location payload.
type Location struct {
	LatDeg, LatMin, LatSec uint8
	IsSouth                uint8
	LonDeg, LonMin, LonSec uint8
	IsWest                 uint8
}

// EncodeLocation builds the wire payload for a decimal lat/lon pair.
func EncodeLocation(latitude, longitude float64) Location {
	latSign := latitude < 0
	lonSign := longitude < 0
	latD, latM, latS := splitDMS(abs(latitude))
	lonD, lonM, lonS := splitDMS(abs(longitude))
	return Location{
		LatDeg: latD, LatMin: latM, LatSec: latS, IsSouth: boolByte(latSign),
		LonDeg: lonD, LonMin: lonM, LonSec: lonS, IsWest: boolByte(lonSign),
	}
}

// Decode recovers the decimal lat/lon pair from a wire Location.
func (l Location) Decode() (latitude, longitude float64) {
	lat := float64(l.LatDeg) + float64(l.LatMin)/60 + float64(l.LatSec)/3600
	lon := float64(l.LonDeg) + float64(l.LonMin)/60 + float64(l.LonSec)/3600
	if l.IsSouth != 0 {
		lat = -lat
	}
	if l.IsWest != 0 {
		lon = -lon
	}
	return lat, lon
}

func splitDMS(deg float64) (d, m, s uint8) {
	whole := int(deg)
	frac := (deg - float64(whole)) * 60
	min := int(frac)
	sec := int((frac - float64(min)) * 60)
	return uint8(whole), uint8(min), uint8(sec)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// UTCDate is the 8-byte get/set UTC date/time payload. Offset follows the
// wire's signed-byte convention: 0-127 is a non-negative GMT offset in
// hours, 128-255 represents offset-256 (a negative offset).
type UTCDate struct {
	Hour, Minute, Second uint8
	Month, Day, Year     uint8
	GMTOffset            uint8
	IsDST                uint8
}

// OffsetHours decodes the signed GMT offset the wire byte carries.
func (u UTCDate) OffsetHours() int {
	if u.GMTOffset > 127 {
		return int(u.GMTOffset) - 256
	}
	return int(u.GMTOffset)
}

// EncodeUTCOffset packs a signed GMT offset in hours into the wire byte.
func EncodeUTCOffset(offsetHours int) uint8 {
	if offsetHours < 0 {
		offsetHours += 256
	}
	return uint8(offsetHours)
}

// PassthroughCommand builds the 8-byte pass-through envelope:
// ['P', args+1, device, command, arg0, arg1, arg2, response_len].
func PassthroughCommand(device DeviceKind, command uint8, arg0, arg1, arg2 byte, argCount int, responseLen uint8) []byte {
	return []byte{'P', byte(argCount + 1), byte(device), command, arg0, arg1, arg2, responseLen}
}

// SlewVariableCommand encodes a variable-rate slew on the given axis (0 =
// RA/azimuth motor, 1 = Dec/altitude motor). rateDegPerSec's sign selects
// the command byte (positive=6, negative=7); magnitude is quantized to
// quarter-arcseconds/second and clamped to 16 bits.
func SlewVariableCommand(axis int, rateDegPerSec float64) []byte {
	device := DeviceAzmMotor
	if axis == 1 {
		device = DeviceAltMotor
	}
	cmd := uint8(cmdSlewVariablePositive)
	if rateDegPerSec < 0 {
		cmd = cmdSlewVariableNegative
	}
	rateAbs := int(abs(rateDegPerSec) * 3600 * 4)
	if rateAbs > 0xFFFF {
		rateAbs = 0xFFFF
	}
	hi := byte((rateAbs >> 8) & 0xFF)
	lo := byte(rateAbs & 0xFF)
	return PassthroughCommand(device, cmd, hi, lo, 0, 2, 0)
}

// DecodeSlewVariableCommand inverts SlewVariableCommand, used by the
// simulator to interpret an incoming pass-through frame.
func DecodeSlewVariableCommand(frame []byte) (axis int, rateDegPerSec float64, ok bool) {
	if len(frame) < 6 {
		return 0, 0, false
	}
	switch DeviceKind(frame[2]) {
	case DeviceAzmMotor:
		axis = 0
	case DeviceAltMotor:
		axis = 1
	default:
		return 0, 0, false
	}
	rateInt := int(frame[4])<<8 | int(frame[5])
	switch frame[3] {
	case cmdSlewVariablePositive:
		rateDegPerSec = float64(rateInt) / (3600.0 * 4)
	case cmdSlewVariableNegative:
		rateDegPerSec = -float64(rateInt) / (3600.0 * 4)
	default:
		return 0, 0, false
	}
	return axis, rateDegPerSec, true
}

// SlewFixedCommand encodes a fixed-rate (button-style) slew: rate is one
// of the NexStar fixed speed indices [0,9].
func SlewFixedCommand(axis int, rate uint8, positive bool) []byte {
	device := DeviceAzmMotor
	if axis == 1 {
		device = DeviceAltMotor
	}
	cmd := uint8(cmdSlewFixedPositive)
	if !positive {
		cmd = cmdSlewFixedNegative
	}
	return PassthroughCommand(device, cmd, rate, 0, 0, 1, 0)
}

// requireSentinel validates that resp is exactly wantLen bytes long and
// ends in '#', the NexStar framing sentinel.
func requireSentinel(resp []byte, wantLen int) bool {
	return len(resp) == wantLen && resp[wantLen-1] == '#'
}

// Codec wraps a Transport with the typed command set the driver and
// simulator both call through.
type Codec struct {
	Transport Transport
}

func (c *Codec) send(cmd []byte, wantLen int) ([]byte, bool) {
	resp, err := c.Transport.SendCommand(cmd, wantLen)
	if err != nil {
		return nil, false
	}
	return resp, requireSentinel(resp, wantLen)
}

// Echo sends 'K'<ch> and expects the same byte echoed back.
func (c *Codec) Echo(ch byte) result.Result[result.Unit] {
	resp, ok := c.send([]byte{'K', ch}, 2)
	if !ok || resp[0] != ch {
		return failOp()
	}
	return result.Ok(result.Unit{})
}

// Version sends 'V' and returns (major, minor).
func (c *Codec) Version() result.Result[[2]int] {
	resp, ok := c.send([]byte{'V'}, 3)
	if !ok {
		return result.Err[[2]int](alpacaerr.InvalidOperation())
	}
	return result.Ok([2]int{int(resp[0]), int(resp[1])})
}

// Model sends 'm' and returns the raw model byte.
func (c *Codec) Model() result.Result[int] {
	resp, ok := c.send([]byte{'m'}, 2)
	if !ok {
		return result.Err[int](alpacaerr.InvalidOperation())
	}
	return result.Ok(int(resp[0]))
}

// ModelName maps a raw model byte to its marketing name, "Unknown model"
// for anything not in the NexStar model table.
func ModelName(model int) string {
	names := map[int]string{
		1: "GPS Series", 3: "i-Series", 4: "i-Series SE", 5: "CGE",
		6: "Advanced GT", 7: "SLT", 9: "CPC", 10: "GT", 11: "4/5 SE",
		12: "6/8 SE", 13: "GCE Pro", 14: "CGEM DX", 15: "LCM",
		16: "Sky Prodigy", 17: "CPC Deluxe", 18: "GT 16", 19: "StarSeeker",
		20: "Advanced VX", 21: "Cosmos", 22: "Evolution", 23: "CGX",
		24: "CGXL", 25: "Astrofi", 26: "SkyWatcher",
	}
	if n, ok := names[model]; ok {
		return n
	}
	return "Unknown model"
}

// RaDe sends 'e' (precise) or 'E' (coarse) and returns (ra hours, dec
// degrees). RA is stored on the wire as degrees (hours*15); this
// unscales it back to hours.
func (c *Codec) RaDe(precise bool) result.Result[[2]float64] {
	size := 10
	cmd := byte('E')
	if precise {
		size = 18
		cmd = 'e'
	}
	resp, ok := c.send([]byte{cmd}, size)
	if !ok {
		return result.Err[[2]float64](alpacaerr.InvalidOperation())
	}
	raInt, deInt, ok := parseHexPair(resp, size)
	if !ok {
		return result.Err[[2]float64](alpacaerr.InvalidOperation())
	}
	ra := FromNexstarUnits(raInt, precise) / 15.0
	de := NormalizeDeclination(FromNexstarUnits(deInt, precise))
	return result.Ok([2]float64{ra, de})
}

// AzmAlt sends 'z' (precise) or 'Z' (coarse) and returns (azimuth, alt).
func (c *Codec) AzmAlt(precise bool) result.Result[[2]float64] {
	size := 10
	cmd := byte('Z')
	if precise {
		size = 18
		cmd = 'z'
	}
	resp, ok := c.send([]byte{cmd}, size)
	if !ok {
		return result.Err[[2]float64](alpacaerr.InvalidOperation())
	}
	azmInt, altInt, ok := parseHexPair(resp, size)
	if !ok {
		return result.Err[[2]float64](alpacaerr.InvalidOperation())
	}
	return result.Ok([2]float64{
		FromNexstarUnits(azmInt, precise),
		FromNexstarUnits(altInt, precise),
	})
}

func parseHexPair(resp []byte, size int) (a, b uint32, ok bool) {
	var av, bv uint32
	n, err := fmt.Sscanf(string(resp[:size-1]), "%x,%x", &av, &bv)
	if err != nil || n != 2 {
		return 0, 0, false
	}
	return av, bv, true
}

// GotoRaDe sends 'r' (precise) or 'R' (coarse) to start an async slew to
// the given ra(hours)/de(degrees) target.
func (c *Codec) GotoRaDe(ra, de float64, precise bool) result.Result[result.Unit] {
	deWire := de
	if deWire < 0 {
		deWire += 360
	}
	raInt := ToNexstarUnits(ra*15.0, precise)
	deInt := ToNexstarUnits(deWire, precise)

	var cmd []byte
	if precise {
		cmd = []byte(fmt.Sprintf("r%08X,%08X", raInt, deInt))
	} else {
		cmd = []byte(fmt.Sprintf("R%04X,%04X", raInt, deInt))
	}
	resp, ok := c.send(cmd, 1)
	if !ok || resp[0] != '#' {
		return failOp()
	}
	return result.Ok(result.Unit{})
}

// GotoAzmAlt sends 'b' (precise) or 'B' (coarse) to start an async slew
// to the given azimuth/altitude target.
func (c *Codec) GotoAzmAlt(azm, alt float64, precise bool) result.Result[result.Unit] {
	azmInt := ToNexstarUnits(azm, precise)
	altInt := ToNexstarUnits(alt, precise)

	var cmd []byte
	if precise {
		cmd = []byte(fmt.Sprintf("b%08X,%08X", azmInt, altInt))
	} else {
		cmd = []byte(fmt.Sprintf("B%04X,%04X", azmInt, altInt))
	}
	resp, ok := c.send(cmd, 1)
	if !ok || resp[0] != '#' {
		return failOp()
	}
	return result.Ok(result.Unit{})
}

// IsGotoInProgress sends 'L'.
func (c *Codec) IsGotoInProgress() result.Result[bool] {
	resp, ok := c.send([]byte{'L'}, 2)
	if !ok {
		return result.Err[bool](alpacaerr.InvalidOperation())
	}
	return result.Ok(resp[0] == '1')
}

// CancelGoto sends 'M'.
func (c *Codec) CancelGoto() result.Result[result.Unit] {
	resp, ok := c.send([]byte{'M'}, 1)
	if !ok || resp[0] != '#' {
		return failOp()
	}
	return result.Ok(result.Unit{})
}

// GetUTCDate sends 'h'.
func (c *Codec) GetUTCDate() result.Result[UTCDate] {
	resp, ok := c.send([]byte{'h'}, 9)
	if !ok {
		return result.Err[UTCDate](alpacaerr.InvalidOperation())
	}
	return result.Ok(UTCDate{
		Hour: resp[0], Minute: resp[1], Second: resp[2],
		Month: resp[3], Day: resp[4], Year: resp[5],
		GMTOffset: resp[6], IsDST: resp[7],
	})
}

// SetUTCDate sends 'H'.
func (c *Codec) SetUTCDate(u UTCDate) result.Result[result.Unit] {
	cmd := []byte{'H', u.Hour, u.Minute, u.Second, u.Month, u.Day, u.Year, u.GMTOffset, u.IsDST}
	resp, ok := c.send(cmd, 1)
	if !ok || resp[0] != '#' {
		return failOp()
	}
	return result.Ok(result.Unit{})
}

// GetLocation sends 'w'.
func (c *Codec) GetLocation() result.Result[Location] {
	resp, ok := c.send([]byte{'w'}, 9)
	if !ok {
		return result.Err[Location](alpacaerr.InvalidOperation())
	}
	return result.Ok(Location{
		LatDeg: resp[0], LatMin: resp[1], LatSec: resp[2], IsSouth: resp[3],
		LonDeg: resp[4], LonMin: resp[5], LonSec: resp[6], IsWest: resp[7],
	})
}

// SetLocation sends 'W'.
func (c *Codec) SetLocation(l Location) result.Result[result.Unit] {
	cmd := []byte{'W', l.LatDeg, l.LatMin, l.LatSec, l.IsSouth, l.LonDeg, l.LonMin, l.LonSec, l.IsWest}
	resp, ok := c.send(cmd, 1)
	if !ok || resp[0] != '#' {
		return failOp()
	}
	return result.Ok(result.Unit{})
}

// SlewVariable sends the pass-through variable-rate slew command for the
// given axis/rate.
func (c *Codec) SlewVariable(axis int, rateDegPerSec float64) result.Result[result.Unit] {
	resp, ok := c.send(SlewVariableCommand(axis, rateDegPerSec), 1)
	if !ok || resp[0] != '#' {
		return failOp()
	}
	return result.Ok(result.Unit{})
}

// GetTrackingMode sends 't'.
func (c *Codec) GetTrackingMode() result.Result[TrackingMode] {
	resp, ok := c.send([]byte{'t'}, 2)
	if !ok {
		return result.Err[TrackingMode](alpacaerr.InvalidOperation())
	}
	return result.Ok(TrackingMode(resp[0]))
}

// SetTrackingMode sends 'T'.
func (c *Codec) SetTrackingMode(mode TrackingMode) result.Result[result.Unit] {
	resp, ok := c.send([]byte{'T', byte(mode)}, 1)
	if !ok || resp[0] != '#' {
		return failOp()
	}
	return result.Ok(result.Unit{})
}

// IsAligned sends 'J'.
func (c *Codec) IsAligned() result.Result[bool] {
	resp, ok := c.send([]byte{'J'}, 2)
	if !ok {
		return result.Err[bool](alpacaerr.InvalidOperation())
	}
	return result.Ok(resp[0] == 1)
}
