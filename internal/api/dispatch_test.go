package api

import (
	"testing"

	"github.com/nexstar-alpaca/bridge/internal/alpacaerr"
	"github.com/nexstar-alpaca/bridge/internal/driver"
	"github.com/nexstar-alpaca/bridge/internal/nexstar"
	"github.com/nexstar-alpaca/bridge/internal/params"
	"github.com/nexstar-alpaca/bridge/internal/simulator"
	"github.com/nexstar-alpaca/bridge/internal/telescope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	mount := simulator.NewMount(33.5, -111.9)
	codec := &nexstar.Codec{Transport: mount}
	celestron := driver.New(codec, true, nil)
	scope := telescope.New(telescope.Metadata{Name: "Test", Capabilities: telescope.CanSlew}, celestron)
	ops := TelescopeOperations(scope)
	return NewRegistry().Add(Device{Type: "telescope", Number: 0, Ops: ops})
}

func TestDispatchUnknownDevice(t *testing.T) {
	reg := newTestRegistry()
	r := Dispatch(reg, "telescope", 1, "connected", "GET", params.NewInsensitive())
	require.True(t, r.IsErr())
	ae := r.Error().(alpacaerr.Error)
	assert.True(t, ae.IsHTTP())
	assert.Equal(t, 404, ae.HTTPStatus())
}

func TestDispatchUnknownOperation(t *testing.T) {
	reg := newTestRegistry()
	r := Dispatch(reg, "telescope", 0, "bogus", "GET", params.NewInsensitive())
	require.True(t, r.IsErr())
	ae := r.Error().(alpacaerr.Error)
	assert.Equal(t, 404, ae.HTTPStatus())
}

func TestDispatchWrongMethod(t *testing.T) {
	reg := newTestRegistry()

	r := Dispatch(reg, "telescope", 0, "abortslew", "GET", params.NewInsensitive())
	require.True(t, r.IsErr())
	ae := r.Error().(alpacaerr.Error)
	assert.Equal(t, 400, ae.HTTPStatus(), "abortslew is a setter-only operation")
}

func TestDispatchGetterSetterRoundTrip(t *testing.T) {
	reg := newTestRegistry()

	args := params.NewSensitive()
	args.Set("Connected", "true")
	r := Dispatch(reg, "telescope", 0, "connected", "PUT", args)
	require.True(t, r.IsOk())

	r = Dispatch(reg, "telescope", 0, "connected", "GET", params.NewInsensitive())
	require.True(t, r.IsOk())
	v, _ := r.Value()
	assert.Equal(t, true, v)
}

func TestDispatchGetOnlyOperationRejectsPUT(t *testing.T) {
	reg := newTestRegistry()
	r := Dispatch(reg, "telescope", 0, "name", "PUT", params.NewSensitive())
	require.True(t, r.IsErr())
	ae := r.Error().(alpacaerr.Error)
	assert.Equal(t, 400, ae.HTTPStatus())
}

func TestDispatchActionAndCommandSurfaceReachTheirImplementation(t *testing.T) {
	reg := newTestRegistry()

	cases := []struct {
		op   string
		args *params.Map
	}{
		{"action", func() *params.Map { m := params.NewSensitive(); m.Set("Action", "park"); return m }()},
		{"commandblind", func() *params.Map { m := params.NewSensitive(); m.Set("Command", "STOP"); m.Set("Raw", "true"); return m }()},
		{"commandbool", func() *params.Map { m := params.NewSensitive(); m.Set("Command", "STOP"); m.Set("Raw", "true"); return m }()},
		{"commandstring", func() *params.Map { m := params.NewSensitive(); m.Set("Command", "STOP"); m.Set("Raw", "true"); return m }()},
	}

	for _, tc := range cases {
		t.Run(tc.op, func(t *testing.T) {
			r := Dispatch(reg, "telescope", 0, tc.op, "PUT", tc.args)
			require.True(t, r.IsErr(), "the bridge implements no named actions or legacy commands")
			ae := r.Error().(alpacaerr.Error)
			assert.False(t, ae.IsHTTP(), "an unregistered operation would 404; a registered no-op must carry the envelope error instead")
			assert.Equal(t, alpacaerr.CodeActionNotImplemented, ae.Code)
		})
	}
}

func TestDispatchSupportedActionsReturnsEmptyList(t *testing.T) {
	reg := newTestRegistry()
	r := Dispatch(reg, "telescope", 0, "supportedactions", "GET", params.NewInsensitive())
	require.True(t, r.IsOk())
	v, _ := r.Value()
	assert.Equal(t, SupportedActions, v)
}
