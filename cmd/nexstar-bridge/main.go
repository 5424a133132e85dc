// Command nexstar-bridge runs a single-mount ASCOM Alpaca server in
// front of a Celestron NexStar hand controller, reachable over serial
// or (with --conform) an in-memory simulator.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	internalapi "github.com/nexstar-alpaca/bridge/internal/api"
	bridgeconfig "github.com/nexstar-alpaca/bridge/internal/config"
	"github.com/nexstar-alpaca/bridge/internal/discovery"
	"github.com/nexstar-alpaca/bridge/internal/driver"
	"github.com/nexstar-alpaca/bridge/internal/nexstar"
	"github.com/nexstar-alpaca/bridge/internal/serialport"
	"github.com/nexstar-alpaca/bridge/internal/simulator"
	"github.com/nexstar-alpaca/bridge/internal/telescope"
	"github.com/nexstar-alpaca/bridge/pkg/ascomserver"
	"github.com/nexstar-alpaca/bridge/pkg/healthcheck"
	bridgemqtt "github.com/nexstar-alpaca/bridge/pkg/mqtt"
)

// healthReportInterval is how often the health engine re-checks the
// transport monitor and, when a broker is configured, publishes the
// result as an MQTT event.
const healthReportInterval = healthcheck.DefaultReportInterval

// capabilities reflects what a NexStar hand controller actually
// supports over the wire: findhome/park/pulseguide aren't implemented
// at the driver layer (internal/driver), so they're left off here too
// rather than advertised and then always failing not_implemented.
const capabilities = telescope.CanSetDeclinationRate |
	telescope.CanSetGuideRates |
	telescope.CanSetRightAscensionRate |
	telescope.CanSetTracking |
	telescope.CanSlew |
	telescope.CanSlewAltAz |
	telescope.CanSlewAltAzAsync |
	telescope.CanSlewAsync |
	telescope.CanSync |
	telescope.CanSyncAltAz |
	telescope.CanMoveAxis0 |
	telescope.CanMoveAxis1

func main() {
	cfg, err := bridgeconfig.Load(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "nexstar-bridge:", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "nexstar-bridge: failed to build logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("exiting with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("nexstar-bridge stopped cleanly")
}

func buildLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg *bridgeconfig.Config, logger *zap.Logger) error {
	rawTransport, monitor := buildTransport(cfg, logger)
	transport := &monitoredTransport{inner: rawTransport, monitor: monitor}

	codec := &nexstar.Codec{Transport: transport}
	celestron := driver.New(codec, true, monitor)

	meta := telescope.Metadata{
		Description:      "Celestron NexStar telescope mount",
		DriverInfo:       "nexstar-alpaca bridge",
		DriverVersion:    "1.0",
		InterfaceVersion: 3,
		Name:             "NexStar",
		AlignmentMode:    1, // polar
		EquatorialSystem: 1, // JNow
		AxisRates: []telescope.AxisRate{
			{Minimum: 0, Maximum: 9},
		},
		TrackingRates: []int{0, 1},
		Capabilities:  capabilities,
	}

	scope := telescope.New(meta, celestron)
	ops := internalapi.TelescopeOperations(scope)

	deviceID := uuid.NewSHA1(uuid.NameSpaceOID, []byte("telescope-0")).String()

	registry := internalapi.NewRegistry().Add(internalapi.Device{
		Type: "telescope", Number: 0, Ops: ops,
	})

	devices := []ascomserver.DeviceInfo{{
		DeviceName: meta.Name, DeviceType: "telescope", DeviceNumber: 0, UniqueID: deviceID,
	}}

	serverConfig := ascomserver.DefaultConfig()
	serverConfig.Server.ListenAddress = fmt.Sprintf(":%d", cfg.Port)
	serverConfig.Logging.Level = cfg.LogLevel

	server, err := ascomserver.NewServer(serverConfig, registry, devices, logger)
	if err != nil {
		return fmt.Errorf("build alpaca server: %w", err)
	}

	disco := discovery.New(discovery.DefaultPort, cfg.Port, logger)
	if err := disco.Start(); err != nil {
		return fmt.Errorf("start discovery: %w", err)
	}
	defer disco.Stop()

	publisher := buildPublisher(cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthEngine := healthcheck.NewEngine(logger, healthReportInterval)
	healthEngine.Register(monitor)
	healthReporter := healthcheck.NewReporter(healthEngine, publishHealth(publisher), logger)
	go healthReporter.StartReporting(ctx, healthReportInterval)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start(ctx)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("nexstar-bridge running",
		zap.String("device", cfg.Device),
		zap.Int("baud", cfg.Baud),
		zap.Int("port", cfg.Port),
		zap.Bool("conform", cfg.Conform))

	select {
	case err := <-serverErrors:
		return err
	case <-sigCh:
		logger.Info("shutdown signal received")
		server.Stop()
		return <-serverErrors
	}
}

// monitoredTransport records every wire round trip's outcome into a
// healthcheck.TransportMonitor without altering the codec-visible
// behavior of the underlying transport.
type monitoredTransport struct {
	inner   nexstar.Transport
	monitor *healthcheck.TransportMonitor
}

func (t *monitoredTransport) SendCommand(cmd []byte, wantLen int) ([]byte, error) {
	resp, err := t.inner.SendCommand(cmd, wantLen)
	t.monitor.Record(err)
	return resp, err
}

// buildTransport selects the simulator (--conform) or the real serial
// port, and builds a TransportMonitor for component Q's health
// reporting.
func buildTransport(cfg *bridgeconfig.Config, logger *zap.Logger) (nexstar.Transport, *healthcheck.TransportMonitor) {
	if cfg.Conform {
		logger.Info("using in-memory simulator transport")
		mon := healthcheck.NewTransportMonitor("simulator", 1, 3)
		return simulator.NewMount(0, 0), mon
	}

	logger.Info("using serial transport", zap.String("device", cfg.Device), zap.Int("baud", cfg.Baud))
	mon := healthcheck.NewTransportMonitor(cfg.Device, 1, 3)
	return serialport.New(cfg.Device, cfg.Baud), mon
}

// publishHealth adapts a Publisher into the healthcheck.PublishFunc the
// Reporter expects, turning the aggregated transport status into a
// "health" event on the telescope's event topic.
func publishHealth(publisher *bridgemqtt.Publisher) healthcheck.PublishFunc {
	return func(_ context.Context, result *healthcheck.AggregatedResult) error {
		publisher.PublishEvent("telescope", 0, "health", map[string]interface{}{
			"status":     result.OverallStatus,
			"components": result.Components,
		})
		return nil
	}
}

func buildPublisher(cfg *bridgeconfig.Config, logger *zap.Logger) *bridgemqtt.Publisher {
	if cfg.MQTTBroker == "" {
		return bridgemqtt.NewPublisher(nil, "telescope:0", logger)
	}

	client, err := bridgemqtt.NewClient(bridgemqtt.NewNexStarConfig(cfg.MQTTBroker, "telescope", 0), logger)
	if err != nil {
		logger.Warn("failed to build mqtt client, event telemetry disabled", zap.Error(err))
		return bridgemqtt.NewPublisher(nil, "telescope:0", logger)
	}

	if err := client.Connect(); err != nil {
		logger.Warn("failed to connect to mqtt broker, event telemetry disabled", zap.Error(err))
		return bridgemqtt.NewPublisher(nil, "telescope:0", logger)
	}

	publisher := bridgemqtt.NewPublisher(client, "telescope:0", logger)
	publisher.PublishStatus("telescope", 0, "online", nil)
	return publisher
}
