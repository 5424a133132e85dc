package mqtt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceEventTopic(t *testing.T) {
	topic := DeviceEventTopic("telescope", 0, "slew-complete")
	assert.Equal(t, "nexstar/telescope/0/event/slew-complete", topic)
}

func TestDeviceHealthTopic(t *testing.T) {
	topic := DeviceHealthTopic("telescope", 0)
	assert.Equal(t, "nexstar/telescope/0/health/status", topic)
}

func TestDeviceStatusTopic(t *testing.T) {
	topic := DeviceStatusTopic("telescope", 0)
	assert.Equal(t, "nexstar/telescope/0/status/connection", topic)
}

func TestParseTopicRoundTrip(t *testing.T) {
	topic := DeviceEventTopic("telescope", 0, "parked")
	parts, err := ParseTopic(topic)
	require.NoError(t, err)
	assert.Equal(t, []string{"telescope", "0", "event", "parked"}, parts)
}

func TestParseTopicRejectsWrongPrefix(t *testing.T) {
	_, err := ParseTopic("other/telescope/0/event/parked")
	assert.Error(t, err)
}
