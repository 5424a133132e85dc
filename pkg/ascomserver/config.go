package ascomserver

import "fmt"

// ServerConfig holds the HTTP listen settings and the fixed identity
// strings the management API reports.
type ServerConfig struct {
	ListenAddress string
	DiscoveryPort int

	ServerName          string
	Manufacturer        string
	ManufacturerVersion string
	Location            string

	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// LoggingConfig controls the gin mode the router runs in.
type LoggingConfig struct {
	Level string
}

// Config is the full configuration for one ascomserver.Server.
type Config struct {
	Server  ServerConfig
	Logging LoggingConfig
}

// DefaultConfig returns a Config with every default the spec names.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddress:       fmt.Sprintf(":%d", DefaultAPIPort),
			DiscoveryPort:       DefaultDiscoveryPort,
			ServerName:          DefaultServerName,
			Manufacturer:        DefaultManufacturer,
			ManufacturerVersion: DefaultManufacturerVersion,
			Location:            DefaultLocation,
			ReadTimeout:         30,
			WriteTimeout:        30,
			IdleTimeout:         120,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Validate fills in any zero-valued fields from DefaultConfig. The
// simplified server has nothing left that can fail validation outright
// — auth, TLS and backend-mode checks went away with the proxy config
// they belonged to.
func (c *Config) Validate() error {
	def := DefaultConfig()
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = def.Server.ListenAddress
	}
	if c.Server.DiscoveryPort == 0 {
		c.Server.DiscoveryPort = def.Server.DiscoveryPort
	}
	if c.Server.ServerName == "" {
		c.Server.ServerName = def.Server.ServerName
	}
	if c.Server.Manufacturer == "" {
		c.Server.Manufacturer = def.Server.Manufacturer
	}
	if c.Server.ManufacturerVersion == "" {
		c.Server.ManufacturerVersion = def.Server.ManufacturerVersion
	}
	if c.Server.Location == "" {
		c.Server.Location = def.Server.Location
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = def.Server.ReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = def.Server.WriteTimeout
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = def.Server.IdleTimeout
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	return nil
}
