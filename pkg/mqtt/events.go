package mqtt

import (
	"go.uber.org/zap"
)

// Publisher is the bridge's optional event telemetry sink: a thin
// wrapper over Client that no-ops when no broker was configured,
// grounded on the teacher's BaseCoordinator.publishHealth pattern
// (internal/coordinators/base.go). The bridge uses it for the periodic
// "health" event and the online/offline connection status.
type Publisher struct {
	client *Client
	source string
	logger *zap.Logger
}

// NewPublisher wraps client, which may be nil — every Publish call then
// becomes a no-op. source identifies the sending device in each
// message's envelope (e.g. "telescope:0").
func NewPublisher(client *Client, source string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{client: client, source: source, logger: logger}
}

// Enabled reports whether this publisher has a live broker connection.
func (p *Publisher) Enabled() bool {
	return p.client != nil && p.client.IsConnected()
}

// PublishEvent sends eventType (e.g. "slew-started", "slew-complete",
// "parked", "connected", "disconnected") with data to the device's
// event topic. A nil client or disconnected broker is a silent no-op.
func (p *Publisher) PublishEvent(deviceType string, deviceNumber int, eventType string, data map[string]interface{}) {
	if !p.Enabled() {
		return
	}

	msg, err := NewMessage(MessageTypeEvent, p.source, EventMessage{Event: eventType, Data: data})
	if err != nil {
		p.logger.Error("failed to build event message", zap.Error(err))
		return
	}

	topic := DeviceEventTopic(deviceType, deviceNumber, eventType)
	if err := p.client.PublishJSON(topic, 0, false, msg); err != nil {
		p.logger.Warn("failed to publish event", zap.String("topic", topic), zap.Error(err))
	}
}

// PublishStatus announces state (e.g. "online", "offline") on the
// device's status topic, retained so a client subscribing after the
// fact still sees the current connection state. It shares that topic
// with the broker's own last-will payload (see NewNexStarConfig), so a
// clean "online" publish here is exactly what a subsequent ungraceful
// disconnect overwrites with "offline".
func (p *Publisher) PublishStatus(deviceType string, deviceNumber int, state string, details map[string]interface{}) {
	if !p.Enabled() {
		return
	}

	msg, err := NewMessage(MessageTypeStatus, p.source, StatusMessage{State: state, Details: details})
	if err != nil {
		p.logger.Error("failed to build status message", zap.Error(err))
		return
	}

	topic := DeviceStatusTopic(deviceType, deviceNumber)
	if err := p.client.PublishJSON(topic, 1, true, msg); err != nil {
		p.logger.Warn("failed to publish status", zap.String("topic", topic), zap.Error(err))
	}
}
