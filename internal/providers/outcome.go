package providers

// Outcome is the tagged result of one collaborator call. The flow
// pattern-matches on it instead of suppressing errors, so every degradation
// point is explicit.
type Outcome[T any] struct {
	value T
	err   error
}

// Ok wraps a successful collaborator result.
func Ok[T any](value T) Outcome[T] {
	return Outcome[T]{value: value}
}

// Failed wraps a collaborator failure.
func Failed[T any](err error) Outcome[T] {
	return Outcome[T]{err: err}
}

// OK reports whether the call succeeded.
func (o Outcome[T]) OK() bool { return o.err == nil }

// Value returns the result; only meaningful when OK.
func (o Outcome[T]) Value() T { return o.value }

// Err returns the failure cause, or nil.
func (o Outcome[T]) Err() error { return o.err }

// Or returns the result when OK, otherwise the fallback.
func (o Outcome[T]) Or(fallback T) T {
	if o.err != nil {
		return fallback
	}
	return o.value
}
