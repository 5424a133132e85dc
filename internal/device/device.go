// Package device implements the shared connection-state base that every
// Alpaca device type builds on: an is_connected flag plus the
// precondition predicates used to gate operations, all returning the
// Ok/Err result algebra instead of throwing.
package device

import (
	"sync"

	"github.com/nexstar-alpaca/bridge/internal/alpacaerr"
	"github.com/nexstar-alpaca/bridge/internal/result"
)

// Base holds the connection flag shared by every device-type facade. It
// is safe for concurrent use: callers needing atomicity across a larger
// operation (e.g. the whole NexStar transaction) must take their own
// lock around Base plus whatever else needs to move together.
type Base struct {
	mu        sync.RWMutex
	connected bool
}

// IsConnected reports the current connection flag.
func (b *Base) IsConnected() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.connected
}

// CheckConnected is Ok iff the device is connected, else not_connected.
func (b *Base) CheckConnected() result.Result[result.Unit] {
	if !b.IsConnected() {
		return result.Err[result.Unit](alpacaerr.NotConnected())
	}
	return result.Ok(result.Unit{})
}

// CheckFlag flat_maps pred: a driver-level failure in pred propagates
// as-is; otherwise a false value becomes not_implemented and a true
// value is Ok.
func CheckFlag(pred result.Result[bool]) result.Result[result.Unit] {
	return result.FlatMap(pred, func(ok bool) result.Result[result.Unit] {
		if !ok {
			return result.Err[result.Unit](alpacaerr.NotImplemented())
		}
		return result.Ok(result.Unit{})
	})
}

// CheckValue is Ok iff predicate holds, else invalid_value.
func CheckValue(predicate bool) result.Result[result.Unit] {
	if !predicate {
		return result.Err[result.Unit](alpacaerr.InvalidValue())
	}
	return result.Ok(result.Unit{})
}

// CheckSet is Ok iff predicate holds, else value_not_set.
func CheckSet(predicate bool) result.Result[result.Unit] {
	if !predicate {
		return result.Err[result.Unit](alpacaerr.ValueNotSet())
	}
	return result.Ok(result.Unit{})
}

// CheckOp is Ok iff predicate holds, else invalid_operation. predicate is
// normally the boolean success flag a driver call returns.
func CheckOp(predicate bool) result.Result[result.Unit] {
	if !predicate {
		return result.Err[result.Unit](alpacaerr.InvalidOperation())
	}
	return result.Ok(result.Unit{})
}

// SetConnected transitions the flag. The transition is idempotent:
// setting the already-current value is a no-op that still reports Ok.
func (b *Base) SetConnected(connected bool) result.Result[result.Unit] {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.connected = connected
	return result.Ok(result.Unit{})
}
