// Package specification implements composable yes/no predicates over domain
// state. Composites are plain closures built with And, Or, and Not; there is
// no interface dispatch and no reflection.
package specification

// Spec is a named predicate over T.
type Spec[T any] struct {
	Name string
	pred func(T) bool
}

// New wraps a predicate function with a name for diagnostics.
func New[T any](name string, pred func(T) bool) Spec[T] {
	return Spec[T]{Name: name, pred: pred}
}

// IsSatisfiedBy evaluates the predicate.
func (s Spec[T]) IsSatisfiedBy(v T) bool {
	return s.pred(v)
}

// And is satisfied only when every part is. Evaluation short-circuits.
func And[T any](name string, specs ...Spec[T]) Spec[T] {
	return New(name, func(v T) bool {
		for _, sp := range specs {
			if !sp.IsSatisfiedBy(v) {
				return false
			}
		}
		return true
	})
}

// Or is satisfied when any part is. Evaluation short-circuits.
func Or[T any](name string, specs ...Spec[T]) Spec[T] {
	return New(name, func(v T) bool {
		for _, sp := range specs {
			if sp.IsSatisfiedBy(v) {
				return true
			}
		}
		return false
	})
}

// Not inverts a specification.
func Not[T any](name string, sp Spec[T]) Spec[T] {
	return New(name, func(v T) bool {
		return !sp.IsSatisfiedBy(v)
	})
}
