// Package alpacaerr implements the closed Alpaca error taxonomy: a fixed
// set of numbered kinds with canonical messages, plus the dispatcher-level
// HTTP rejections that never reach the envelope.
package alpacaerr

import "fmt"

// Kind identifies which row of the taxonomy an Error belongs to.
type Kind int

const (
	KindNotImplemented Kind = iota
	KindInvalidValue
	KindValueNotSet
	KindNotConnected
	KindParked
	KindSlaved
	KindInvalidOperation
	KindActionNotImplemented
	KindDriverCustom
	KindHTTP
)

// Fixed 16-bit codes from the Alpaca error taxonomy.
const (
	CodeNotImplemented       = 0x400
	CodeInvalidValue         = 0x401
	CodeValueNotSet          = 0x402
	CodeNotConnected         = 0x407
	CodeParked               = 0x408
	CodeSlaved               = 0x409
	CodeInvalidOperation     = 0x40B
	CodeActionNotImplemented = 0x40C
	driverCustomBase         = 0x500
	httpBase                 = 0x1000
)

// Error is a value type, never thrown, carrying a fixed kind, a 16-bit
// (or larger, for the http kind) numeric code, and a message.
type Error struct {
	Kind    Kind
	Code    int
	Message string
}

func (e Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("alpaca error 0x%X", e.Code)
	}
	return e.Message
}

// IsHTTP reports whether e is a dispatcher-level rejection that must
// produce a bare HTTP status instead of populating the envelope.
func (e Error) IsHTTP() bool { return e.Kind == KindHTTP }

// NotImplemented — capability absent or operation not supplied.
func NotImplemented() Error {
	return Error{Kind: KindNotImplemented, Code: CodeNotImplemented}
}

// InvalidValue — argument out of range.
func InvalidValue() Error {
	return Error{Kind: KindInvalidValue, Code: CodeInvalidValue, Message: "Invalid value"}
}

// ValueNotSet — read before first write.
func ValueNotSet() Error {
	return Error{Kind: KindValueNotSet, Code: CodeValueNotSet}
}

// NotConnected — operation on a disconnected device.
func NotConnected() Error {
	return Error{Kind: KindNotConnected, Code: CodeNotConnected, Message: "Not connected"}
}

// Parked — operation forbidden while parked.
func Parked() Error {
	return Error{Kind: KindParked, Code: CodeParked}
}

// Slaved — operation forbidden while slaved.
func Slaved() Error {
	return Error{Kind: KindSlaved, Code: CodeSlaved}
}

// InvalidOperation — driver reports failure (short read, missing
// sentinel, syscall error).
func InvalidOperation() Error {
	return Error{Kind: KindInvalidOperation, Code: CodeInvalidOperation}
}

// ActionNotImplemented — unknown named action.
func ActionNotImplemented() Error {
	return Error{Kind: KindActionNotImplemented, Code: CodeActionNotImplemented}
}

// DriverCustom produces a driver-specific error in [0x500, 0xFFF] with a
// free-text message. Argument-parsing failures ("Field 'X' not found",
// "Invalid 'X' field") are reported through this factory.
func DriverCustom(offset int, message string) Error {
	return Error{Kind: KindDriverCustom, Code: driverCustomBase + offset, Message: message}
}

// Custom is DriverCustom with offset 0, matching the field-parser's
// free-text errors which don't distinguish sub-codes.
func Custom(message string) Error {
	return DriverCustom(0, message)
}

// HTTP produces a dispatcher-level rejection. These never populate the
// JSON envelope; the caller must respond with the given HTTP status
// directly.
func HTTP(status int, message string) Error {
	return Error{Kind: KindHTTP, Code: httpBase + status, Message: message}
}

// HTTPStatus extracts the plain HTTP status code from an http-kind
// Error's Code field.
func (e Error) HTTPStatus() int {
	return e.Code - httpBase
}

// FieldNotFound produces the canonical "Field '<name>' not found" error
// for a missing required argument.
func FieldNotFound(name string) Error {
	return Custom(fmt.Sprintf("Field '%s' not found", name))
}

// FieldInvalid produces the canonical "Invalid '<name>' field" error for
// a value that failed to decode.
func FieldInvalid(name string) Error {
	return Custom(fmt.Sprintf("Invalid '%s' field", name))
}
