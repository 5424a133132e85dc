// Package api implements the per-device-type operation table and the
// Alpaca JSON envelope renderer: the two pieces that turn a telescope
// facade call into an HTTP response.
package api

import (
	"sync/atomic"

	"github.com/nexstar-alpaca/bridge/internal/alpacaerr"
)

// Envelope is the common Alpaca response body. Field order matters: it
// is serialized in exactly this order — Value, ClientID, ErrorNumber,
// ErrorMessage, ClientTransactionID, ServerTransactionID.
type Envelope struct {
	Value               any    `json:"Value"`
	ClientID             uint32 `json:"ClientID"`
	ErrorNumber          int    `json:"ErrorNumber"`
	ErrorMessage         string `json:"ErrorMessage"`
	ClientTransactionID  uint32 `json:"ClientTransactionID"`
	ServerTransactionID  uint32 `json:"ServerTransactionID"`
}

// TransactionCounter is a process-wide monotonically increasing
// generator for ServerTransactionID, incremented atomically per
// request.
type TransactionCounter struct {
	n atomic.Uint32
}

// Next returns the next server transaction ID, starting at 1.
func (c *TransactionCounter) Next() uint32 {
	return c.n.Add(1)
}

// Render builds the envelope for a handler outcome. err is nil on
// success; on failure its Kind selects between populating the envelope
// (the normal case) and signaling a dispatcher-level HTTP status via
// httpStatus/true.
func Render(value any, err error, clientID, clientTxnID, serverTxnID uint32) (env Envelope, httpStatus int, isHTTPRejection bool) {
	if err == nil {
		return Envelope{
			Value: value, ClientID: clientID, ErrorNumber: 0, ErrorMessage: "",
			ClientTransactionID: clientTxnID, ServerTransactionID: serverTxnID,
		}, 200, false
	}

	if ae, ok := err.(alpacaerr.Error); ok && ae.IsHTTP() {
		return Envelope{ErrorMessage: ae.Message}, ae.HTTPStatus(), true
	}

	code, msg := errorCodeAndMessage(err)
	return Envelope{
		Value: nil, ClientID: clientID, ErrorNumber: code, ErrorMessage: msg,
		ClientTransactionID: clientTxnID, ServerTransactionID: serverTxnID,
	}, 200, false
}

func errorCodeAndMessage(err error) (int, string) {
	if ae, ok := err.(alpacaerr.Error); ok {
		return ae.Code, ae.Error()
	}
	return alpacaerr.DriverCustom(0, err.Error()).Code, err.Error()
}
