package alpacaerr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFactoriesCodes(t *testing.T) {
	assert.Equal(t, CodeNotImplemented, NotImplemented().Code)
	assert.Equal(t, CodeInvalidValue, InvalidValue().Code)
	assert.Equal(t, CodeValueNotSet, ValueNotSet().Code)
	assert.Equal(t, CodeNotConnected, NotConnected().Code)
	assert.Equal(t, CodeParked, Parked().Code)
	assert.Equal(t, CodeSlaved, Slaved().Code)
	assert.Equal(t, CodeInvalidOperation, InvalidOperation().Code)
	assert.Equal(t, CodeActionNotImplemented, ActionNotImplemented().Code)
}

func TestErrorMessageFallback(t *testing.T) {
	e := Parked()
	assert.Equal(t, "alpaca error 0x408", e.Error())

	e = NotConnected()
	assert.Equal(t, "Not connected", e.Error())
}

func TestDriverCustom(t *testing.T) {
	e := DriverCustom(5, "custom failure")
	assert.Equal(t, 0x505, e.Code)
	assert.Equal(t, "custom failure", e.Message)
	assert.False(t, e.IsHTTP())

	e = Custom("plain failure")
	assert.Equal(t, 0x500, e.Code)
}

func TestHTTPRejection(t *testing.T) {
	e := HTTP(404, "device not found")
	assert.True(t, e.IsHTTP())
	assert.Equal(t, 404, e.HTTPStatus())
	assert.Equal(t, "device not found", e.Message)

	e = HTTP(400, "Invalid ClientID")
	assert.Equal(t, 400, e.HTTPStatus())
}

func TestFieldHelpers(t *testing.T) {
	assert.Equal(t, "Field 'RightAscension' not found", FieldNotFound("RightAscension").Message)
	assert.Equal(t, "Invalid 'RightAscension' field", FieldInvalid("RightAscension").Message)
}
