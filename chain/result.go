package chain

import berr "github.com/next-trace/scg-event-hub/contract/errors"

// Result is the outcome of a handler: either a resolved value or "pass it on".
// The zero Result is Unhandled.
type Result[R any] struct {
	value    R
	resolved bool
}

// Resolved wraps a value produced by the handler that accepted the request.
func Resolved[R any](v R) Result[R] { return Result[R]{value: v, resolved: true} }

// Unhandled signals that the request should be offered to the next handler.
func Unhandled[R any]() Result[R] { return Result[R]{} }

// Handled reports whether some handler resolved the request.
func (r Result[R]) Handled() bool { return r.resolved }

// Value returns the resolved value and whether there was one.
func (r Result[R]) Value() (R, bool) { return r.value, r.resolved }

// Get returns the resolved value, or ErrUnhandled when the request fell off the chain.
func (r Result[R]) Get() (R, error) {
	if !r.resolved {
		var zero R
		return zero, berr.ErrUnhandled
	}

	return r.value, nil
}
