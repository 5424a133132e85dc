// Package ascomserver hosts the Alpaca HTTP surface (management API,
// per-device API, setup stub) for devices registered in an
// internal/api.Registry. Unlike a reflector/proxy server that forwards
// requests to remote backends, this server hosts drivers directly
// in-process: each registered device's operation table calls straight
// into a local telescope facade.
package ascomserver

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/nexstar-alpaca/bridge/internal/api"
)

// AlpacaAPIVersion is the supported Alpaca API version.
const AlpacaAPIVersion = 1

// Default listen/discovery ports and server identity strings.
const (
	DefaultAPIPort       = 11111
	DefaultDiscoveryPort = 32227

	DefaultServerName          = "Alpaca Telescope Server"
	DefaultManufacturer        = "Marrony Neris"
	DefaultManufacturerVersion = "0.0.1"
	DefaultLocation            = "US"
)

// DeviceInfo is the static identity the management API reports for one
// registered device: /management/v1/configureddevices needs exactly
// these four fields per device.
type DeviceInfo struct {
	DeviceName   string
	DeviceType   string
	DeviceNumber int
	UniqueID     string
}

// Server is the Alpaca HTTP server: management API, per-device API
// dispatch, and the setup stub, backed by an api.Registry of
// in-process devices.
type Server struct {
	config *Config
	logger *zap.Logger

	registry *api.Registry
	devices  []DeviceInfo
	txn      api.TransactionCounter

	httpServer *http.Server
	stopCh     chan struct{}
}
