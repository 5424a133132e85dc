// Package discovery implements the ASCOM Alpaca UDP discovery protocol:
// clients broadcast a fixed literal on a well-known port and every
// Alpaca server on the network replies with the TCP port its REST API
// listens on.
package discovery

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
)

// DiscoveryMessage is the exact broadcast literal clients send.
// Comparison is case-sensitive per the protocol.
const DiscoveryMessage = "alpacadiscovery1"

// DefaultPort is the well-known UDP discovery port.
const DefaultPort = 32227

// response is the JSON body returned to a valid discovery request.
type response struct {
	AlpacaPort int `json:"AlpacaPort"`
}

// Service answers discovery broadcasts on behalf of one Alpaca API
// listening on apiPort.
type Service struct {
	port    int
	apiPort int
	logger  *zap.Logger
	stopCh  chan struct{}
}

// New builds a discovery service. port is the UDP port to listen on
// (DefaultPort unless overridden); apiPort is advertised in replies.
func New(port, apiPort int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		port:    port,
		apiPort: apiPort,
		logger:  logger.With(zap.String("component", "discovery")),
		stopCh:  make(chan struct{}),
	}
}

// Start opens the UDP listener and begins answering broadcasts in a
// background goroutine. It returns once the listener is bound.
func (s *Service) Start() error {
	addr := &net.UDPAddr{IP: net.IPv4zero, Port: s.port}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("discovery: listen udp: %w", err)
	}

	s.logger.Info("discovery service listening",
		zap.String("address", conn.LocalAddr().String()),
		zap.Int("api_port", s.apiPort))

	go s.loop(conn)
	return nil
}

// Stop signals the discovery loop to exit. It does not block for the
// loop's 1-second read deadline to elapse.
func (s *Service) Stop() {
	close(s.stopCh)
}

func (s *Service) loop(conn *net.UDPConn) {
	defer func() { _ = conn.Close() }()

	buf := make([]byte, 1024)
	body, err := json.Marshal(response{AlpacaPort: s.apiPort})
	if err != nil {
		s.logger.Error("failed to marshal discovery response", zap.Error(err))
		return
	}

	for {
		select {
		case <-s.stopCh:
			return
		default:
		}

		// Short read deadline so stopCh is checked at least once a second.
		_ = conn.SetReadDeadline(time.Now().Add(time.Second))

		n, remote, err := conn.ReadFromUDP(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			s.logger.Warn("error reading discovery packet", zap.Error(err))
			continue
		}

		if string(buf[:n]) != DiscoveryMessage {
			continue
		}

		if _, err := conn.WriteToUDP(body, remote); err != nil {
			s.logger.Error("failed to send discovery response",
				zap.String("to", remote.String()), zap.Error(err))
		}
	}
}
