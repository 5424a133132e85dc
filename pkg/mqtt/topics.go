// Package mqtt defines topic conventions for the NexStar bridge's
// optional telemetry publisher.
package mqtt

import (
	"fmt"
	"strings"
)

// Topic naming convention for the bridge.
// Format: nexstar/{device}/{action}/{resource}
const (
	// TopicPrefix is the root prefix for every telemetry topic.
	TopicPrefix = "nexstar"

	ActionEvent  = "event"
	ActionStatus = "status"
	ActionHealth = "health"
)

// TopicBuilder constructs topic strings following the prefix/device/
// action/resource convention.
type TopicBuilder struct {
	parts []string
}

// NewTopicBuilder starts a builder with the bridge's topic prefix.
func NewTopicBuilder() *TopicBuilder {
	return &TopicBuilder{parts: []string{TopicPrefix}}
}

// Device adds a device segment (e.g. "telescope/0").
func (tb *TopicBuilder) Device(deviceType string, deviceNumber int) *TopicBuilder {
	tb.parts = append(tb.parts, deviceType, fmt.Sprintf("%d", deviceNumber))
	return tb
}

// Action adds an action segment.
func (tb *TopicBuilder) Action(action string) *TopicBuilder {
	tb.parts = append(tb.parts, action)
	return tb
}

// Resource adds a resource segment.
func (tb *TopicBuilder) Resource(resource string) *TopicBuilder {
	tb.parts = append(tb.parts, resource)
	return tb
}

// Build joins the accumulated segments into the final topic string.
func (tb *TopicBuilder) Build() string {
	return strings.Join(tb.parts, "/")
}

// DeviceEventTopic builds nexstar/<type>/<n>/event/<eventType>, the topic
// PublishEvent publishes a named device event to.
func DeviceEventTopic(deviceType string, deviceNumber int, eventType string) string {
	return NewTopicBuilder().Device(deviceType, deviceNumber).Action(ActionEvent).Resource(eventType).Build()
}

// DeviceHealthTopic builds nexstar/<type>/<n>/health/status. The bridge
// sends its periodic health report as a "health" event on
// DeviceEventTopic, not on this topic.
func DeviceHealthTopic(deviceType string, deviceNumber int) string {
	return NewTopicBuilder().Device(deviceType, deviceNumber).Action(ActionHealth).Resource("status").Build()
}

// DeviceStatusTopic is the topic a device's connect/disconnect
// lifecycle announcements publish to, including the broker's
// last-will-and-testament payload for an ungraceful disconnect.
func DeviceStatusTopic(deviceType string, deviceNumber int) string {
	return NewTopicBuilder().Device(deviceType, deviceNumber).Action(ActionStatus).Resource("connection").Build()
}

// ParseTopic splits a topic into its segments, validating the prefix.
func ParseTopic(topic string) ([]string, error) {
	parts := strings.Split(topic, "/")
	if len(parts) < 2 || parts[0] != TopicPrefix {
		return nil, fmt.Errorf("invalid topic format: must start with %s", TopicPrefix)
	}
	return parts[1:], nil
}
