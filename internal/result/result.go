// Package result provides the two-variant outcome returned by services for
// expected business conditions.
package result

import "softwise/internal/domain"

// Result holds either a value or an *domain.AppError, never both.
type Result[T any] struct {
	value T
	err   *domain.AppError
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail wraps a business failure. A nil error is promoted to INTERNAL_SERVER_ERROR.
func Fail[T any](e *domain.AppError) Result[T] {
	if e == nil {
		e = domain.NewInternalError("unknown failure", "")
	}
	return Result[T]{err: e}
}

func (r Result[T]) IsOk() bool { return r.err == nil }

func (r Result[T]) Value() T { return r.value }

// Failure returns the business error, or nil on success.
func (r Result[T]) Failure() *domain.AppError { return r.err }

// Get unpacks the result in the usual value, error order.
func (r Result[T]) Get() (T, *domain.AppError) { return r.value, r.err }
