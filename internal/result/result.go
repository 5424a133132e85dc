// Package result implements the Ok/Err sum-type algebra used to compose
// fallible steps (precondition checks, driver calls, argument parsing)
// without exceptions.
package result

// Result is a tagged union: exactly one of Ok(value) or Err(err) is
// inhabited. The zero value is an Err carrying a nil error, which is never
// produced by the constructors below and should not be relied upon.
type Result[T any] struct {
	value T
	err   error
	ok    bool
}

// Ok builds a successful Result carrying value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// Err builds a failed Result carrying err. Passing a nil err still
// produces a failed Result; callers should never construct Err(nil).
func Err[T any](err error) Result[T] {
	return Result[T]{err: err, ok: false}
}

// IsOk reports whether r carries a value.
func (r Result[T]) IsOk() bool { return r.ok }

// IsErr reports whether r carries an error.
func (r Result[T]) IsErr() bool { return !r.ok }

// Value returns the carried value and true, or the zero value and false
// if r is an Err.
func (r Result[T]) Value() (T, bool) {
	return r.value, r.ok
}

// Error returns the carried error, or nil if r is Ok.
func (r Result[T]) Error() error {
	if r.ok {
		return nil
	}
	return r.err
}

// Unwrap returns the value, panicking if r is an Err. Reserved for
// contexts that have already proven r.IsOk().
func (r Result[T]) Unwrap() T {
	if !r.ok {
		panic("result: Unwrap called on an Err value")
	}
	return r.value
}

// UnwrapOr returns the carried value, or fallback if r is an Err.
func (r Result[T]) UnwrapOr(fallback T) T {
	if r.ok {
		return r.value
	}
	return fallback
}

// Map applies f to an Ok value and wraps the result; an Err passes
// through unchanged. Map cannot itself be a method with a new type
// parameter (Go disallows generic methods), so it is a free function.
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	if !r.ok {
		return Err[U](r.err)
	}
	return Ok(f(r.value))
}

// FlatMap is the monadic bind: f is applied only to an Ok value and its
// Result is returned directly, never nested.
func FlatMap[T, U any](r Result[T], f func(T) Result[U]) Result[U] {
	if !r.ok {
		return Err[U](r.err)
	}
	return f(r.value)
}

// Match is the eager reducer: onOk runs for an Ok value, onErr for an
// Err.
func Match[T, R any](r Result[T], onOk func(T) R, onErr func(error) R) R {
	if r.ok {
		return onOk(r.value)
	}
	return onErr(r.err)
}

// Unit stands in for a Result[T] with no meaningful payload.
type Unit struct{}

// Void discards r's value, keeping only its Ok/Err status.
func Void[T any](r Result[T]) Result[Unit] {
	if !r.ok {
		return Err[Unit](r.err)
	}
	return Ok(Unit{})
}

// Join inspects each of rs left to right. If all are Ok, f is invoked
// with their values and its Result is returned; the first Err
// encountered is returned verbatim without invoking f. This realizes
// the n-ary join described by the result algebra: the error carried is
// always the leftmost Err in argument order.
func Join[T any, R any](f func([]T) Result[R], rs ...Result[T]) Result[R] {
	values := make([]T, len(rs))
	for i, r := range rs {
		if !r.ok {
			return Err[R](r.err)
		}
		values[i] = r.value
	}
	return f(values)
}

// Join2 composes two heterogeneously-typed results, short-circuiting on
// the leftmost Err.
func Join2[A, B, R any](a Result[A], b Result[B], f func(A, B) Result[R]) Result[R] {
	if !a.ok {
		return Err[R](a.err)
	}
	if !b.ok {
		return Err[R](b.err)
	}
	return f(a.value, b.value)
}

// Flatten walks items left to right, applying f to each and collecting
// Ok values into a slice. It stops at, and returns, the first Err.
func Flatten[T, U any](items []T, f func(T) Result[U]) Result[[]U] {
	out := make([]U, 0, len(items))
	for _, item := range items {
		r := f(item)
		if !r.ok {
			return Err[[]U](r.err)
		}
		v, _ := r.Value()
		out = append(out, v)
	}
	return Ok(out)
}
