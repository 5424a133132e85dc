// Package config parses the bridge's startup configuration: CLI flags
// exactly as spec.md §6 names them, optionally layered over a
// viper-loaded config file and NEXSTAR_-prefixed environment variables.
// Flags always win over the file/env layer.
package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the bridge's fully resolved startup configuration.
type Config struct {
	Device     string // -d/--device
	Baud       int    // -b/--baud
	Port       int    // -p/--port
	Conform    bool   // -c/--conform
	LogLevel   string
	MQTTBroker string
}

// Default returns the configuration spec.md §6 specifies when nothing
// else is supplied.
func Default() *Config {
	return &Config{
		Device:   "/dev/ttyUSB0",
		Baud:     9600,
		Port:     11111,
		Conform:  false,
		LogLevel: "info",
	}
}

// Load parses args (normally os.Args[1:]). A --config file (and
// NEXSTAR_-prefixed environment variables) supply defaults beneath the
// flags named in spec.md §6; explicit flags always win.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("nexstar-bridge", flag.ContinueOnError)

	def := Default()
	var configFile string
	fs.StringVar(&configFile, "config", "", "optional config file (YAML/JSON)")
	fs.String("device", def.Device, "serial device path")
	fs.String("d", def.Device, "serial device path (shorthand)")
	fs.Int("baud", def.Baud, "serial baud rate")
	fs.Int("b", def.Baud, "serial baud rate (shorthand)")
	fs.Int("port", def.Port, "Alpaca HTTP listen port")
	fs.Int("p", def.Port, "Alpaca HTTP listen port (shorthand)")
	fs.Bool("conform", def.Conform, "use the in-memory simulator transport")
	fs.Bool("c", def.Conform, "use the in-memory simulator transport (shorthand)")
	fs.String("log-level", def.LogLevel, "log level: debug, info, warn, error")
	fs.String("mqtt-broker", "", "optional MQTT broker URL for event telemetry")
	// Pre-scan for --config since the viper layer must be loaded before
	// the rest of the flags' defaults can be computed.
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v, err := loadViper(configFile)
	if err != nil {
		return nil, err
	}

	fs2 := flag.NewFlagSet("nexstar-bridge", flag.ContinueOnError)
	fs2.StringVar(&configFile, "config", "", "optional config file (YAML/JSON)")

	device := fs2.String("device", v.GetString2("device", def.Device), "serial device path")
	fs2.StringVar(device, "d", *device, "serial device path (shorthand)")
	baud := fs2.Int("baud", v.GetInt2("baud", def.Baud), "serial baud rate")
	fs2.IntVar(baud, "b", *baud, "serial baud rate (shorthand)")
	port := fs2.Int("port", v.GetInt2("port", def.Port), "Alpaca HTTP listen port")
	fs2.IntVar(port, "p", *port, "Alpaca HTTP listen port (shorthand)")
	conform := fs2.Bool("conform", v.GetBool2("conform", def.Conform), "use the in-memory simulator transport")
	fs2.BoolVar(conform, "c", *conform, "use the in-memory simulator transport (shorthand)")
	logLevel := fs2.String("log-level", v.GetString2("log-level", def.LogLevel), "log level: debug, info, warn, error")
	mqttBroker := fs2.String("mqtt-broker", v.GetString2("mqtt-broker", ""), "optional MQTT broker URL for event telemetry")

	if err := fs2.Parse(args); err != nil {
		return nil, err
	}

	return &Config{
		Device:     *device,
		Baud:       *baud,
		Port:       *port,
		Conform:    *conform,
		LogLevel:   *logLevel,
		MQTTBroker: *mqttBroker,
	}, nil
}

// viperLayer wraps *viper.Viper with typed getters that fall back to a
// caller-supplied default rather than viper's own zero value, so an
// unset key in the file/env layer still yields the bridge's documented
// default instead of "" / 0 / false.
type viperLayer struct{ v *viper.Viper }

func loadViper(configFile string) (*viperLayer, error) {
	v := viper.New()
	v.SetEnvPrefix("NEXSTAR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", configFile, err)
		}
	}

	return &viperLayer{v: v}, nil
}

func (l *viperLayer) GetString2(key, def string) string {
	if l.v.IsSet(key) {
		return l.v.GetString(key)
	}
	return def
}

func (l *viperLayer) GetInt2(key string, def int) int {
	if l.v.IsSet(key) {
		return l.v.GetInt(key)
	}
	return def
}

func (l *viperLayer) GetBool2(key string, def bool) bool {
	if l.v.IsSet(key) {
		return l.v.GetBool(key)
	}
	return def
}
