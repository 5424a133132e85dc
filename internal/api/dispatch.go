package api

import (
	"strings"

	"github.com/nexstar-alpaca/bridge/internal/alpacaerr"
	"github.com/nexstar-alpaca/bridge/internal/params"
	"github.com/nexstar-alpaca/bridge/internal/result"
)

// Device names one addressable Alpaca resource: a device type
// ("telescope"), its zero-based device number, and the operation table
// backing it.
type Device struct {
	Type      string
	Number    int
	Ops       *OperationTable
}

// Registry maps (device type, device number) to a Device, the set the
// management API enumerates and the dispatcher looks operations up in.
type Registry struct {
	devices []Device
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry { return &Registry{} }

// Add registers d, returning the registry for chaining.
func (r *Registry) Add(d Device) *Registry {
	r.devices = append(r.devices, d)
	return r
}

// All returns every registered device, in registration order.
func (r *Registry) All() []Device { return r.devices }

// Lookup finds the device matching deviceType/deviceNumber.
func (r *Registry) Lookup(deviceType string, deviceNumber int) (Device, bool) {
	for _, d := range r.devices {
		if strings.EqualFold(d.Type, deviceType) && d.Number == deviceNumber {
			return d, true
		}
	}
	return Device{}, false
}

// Dispatch resolves a device-scoped Alpaca operation. method is "GET" or
// "PUT". args must already be built with the correct case-sensitivity
// (insensitive for GET query strings, sensitive for PUT body forms) by
// the transport layer.
func Dispatch(reg *Registry, deviceType string, deviceNumber int, operation, method string, args *params.Map) result.Result[any] {
	dev, ok := reg.Lookup(deviceType, deviceNumber)
	if !ok {
		return result.Err[any](alpacaerr.HTTP(404, "device not found"))
	}

	op := strings.ToLower(operation)

	switch method {
	case "GET":
		if getter, ok := dev.Ops.Getters[op]; ok {
			return getter(args)
		}
		if _, ok := dev.Ops.Setters[op]; ok {
			return result.Err[any](alpacaerr.HTTP(400, "operation requires PUT"))
		}
		return result.Err[any](alpacaerr.HTTP(404, "operation not found"))

	case "PUT":
		if setter, ok := dev.Ops.Setters[op]; ok {
			r := setter(args)
			if r.IsErr() {
				return result.Err[any](r.Error())
			}
			return result.Ok[any](nil)
		}
		if _, ok := dev.Ops.Getters[op]; ok {
			return result.Err[any](alpacaerr.HTTP(400, "operation requires GET"))
		}
		return result.Err[any](alpacaerr.HTTP(404, "operation not found"))

	default:
		return result.Err[any](alpacaerr.HTTP(400, "unsupported method"))
	}
}

// SupportedActions is the empty custom-action list every device exposes;
// the bridge implements no named actions beyond the standard interface.
var SupportedActions = []string{}

// Action rejects every named action: this bridge has none to run.
func Action(_ string, _ []string) result.Result[any] {
	return result.Err[any](alpacaerr.ActionNotImplemented())
}

// CommandBlind, CommandBool and CommandString are the free-form legacy
// command surface; Alpaca deprecated them in favor of Action, and this
// bridge does not implement any.
func CommandBlind(_ string, _ bool) result.Result[result.Unit] {
	return result.Err[result.Unit](alpacaerr.ActionNotImplemented())
}

func CommandBool(_ string, _ bool) result.Result[any] {
	return result.Err[any](alpacaerr.ActionNotImplemented())
}

func CommandString(_ string, _ bool) result.Result[any] {
	return result.Err[any](alpacaerr.ActionNotImplemented())
}
