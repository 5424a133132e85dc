package api

import (
	"testing"

	"github.com/nexstar-alpaca/bridge/internal/alpacaerr"
	"github.com/stretchr/testify/assert"
)

func TestRenderSuccess(t *testing.T) {
	env, status, isHTTP := Render(12.5, nil, 7, 3, 1)
	assert.Equal(t, 200, status)
	assert.False(t, isHTTP)
	assert.Equal(t, 12.5, env.Value)
	assert.Equal(t, uint32(7), env.ClientID)
	assert.Equal(t, 0, env.ErrorNumber)
	assert.Equal(t, uint32(3), env.ClientTransactionID)
	assert.Equal(t, uint32(1), env.ServerTransactionID)
}

func TestRenderAlpacaError(t *testing.T) {
	env, status, isHTTP := Render(nil, alpacaerr.NotConnected(), 1, 1, 1)
	assert.Equal(t, 200, status, "alpaca-kind errors still return HTTP 200 with the envelope populated")
	assert.False(t, isHTTP)
	assert.Equal(t, alpacaerr.CodeNotConnected, env.ErrorNumber)
	assert.Equal(t, "Not connected", env.ErrorMessage)
	assert.Nil(t, env.Value)
}

func TestRenderHTTPRejection(t *testing.T) {
	env, status, isHTTP := Render(nil, alpacaerr.HTTP(404, "device not found"), 1, 1, 1)
	assert.True(t, isHTTP)
	assert.Equal(t, 404, status)
	assert.Equal(t, "device not found", env.ErrorMessage, "message must survive an HTTP-kind rejection")
}

func TestTransactionCounterMonotonic(t *testing.T) {
	var c TransactionCounter
	first := c.Next()
	second := c.Next()
	third := c.Next()
	assert.Equal(t, uint32(1), first)
	assert.Less(t, first, second)
	assert.Less(t, second, third)
}
