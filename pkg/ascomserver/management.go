package ascomserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ManagementAPI implements the three server-level, non-device-specific
// Alpaca endpoints.
type ManagementAPI struct {
	server *Server
}

// NewManagementAPI builds the management endpoint group for server.
func NewManagementAPI(server *Server) *ManagementAPI {
	return &ManagementAPI{server: server}
}

// RegisterRoutes binds the three management endpoints under router.
func (m *ManagementAPI) RegisterRoutes(router gin.IRouter) {
	router.GET("/management/apiversions", m.handleAPIVersions)
	router.GET("/management/v1/description", m.handleDescription)
	router.GET("/management/v1/configureddevices", m.handleConfiguredDevices)
}

func (m *ManagementAPI) handleAPIVersions(c *gin.Context) {
	m.render(c, []int{AlpacaAPIVersion})
}

func (m *ManagementAPI) handleDescription(c *gin.Context) {
	m.render(c, gin.H{
		"ServerName":          m.server.config.Server.ServerName,
		"Manufacturer":        m.server.config.Server.Manufacturer,
		"ManufacturerVersion": m.server.config.Server.ManufacturerVersion,
		"Location":            m.server.config.Server.Location,
	})
}

func (m *ManagementAPI) handleConfiguredDevices(c *gin.Context) {
	devices := make([]gin.H, 0, len(m.server.devices))
	for _, d := range m.server.devices {
		devices = append(devices, gin.H{
			"DeviceName":   d.DeviceName,
			"DeviceType":   d.DeviceType,
			"DeviceNumber": d.DeviceNumber,
			"UniqueID":     d.UniqueID,
		})
	}
	m.render(c, devices)
}

// render wraps value in the standard envelope. Management responses
// never fail, so only the success path applies.
func (m *ManagementAPI) render(c *gin.Context, value any) {
	env, _, _ := renderEnvelope(c, value, nil)
	c.JSON(http.StatusOK, env)
}
