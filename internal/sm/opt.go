package sm

import "fmt"

// Opt is a value that may be absent on a given tick.
type Opt[T any] struct {
	V     T
	Valid bool
}

// Some wraps a present value.
func Some[T any](v T) Opt[T] {
	return Opt[T]{V: v, Valid: true}
}

// None returns an absent value.
func None[T any]() Opt[T] {
	return Opt[T]{}
}

// Get returns the value and whether it is present.
func (o Opt[T]) Get() (T, bool) {
	return o.V, o.Valid
}

// Or returns the value, or def when absent.
func (o Opt[T]) Or(def T) T {
	if o.Valid {
		return o.V
	}
	return def
}

// Must returns the value and panics with ErrCodeMissingInput when absent.
// Machines that cannot make progress without an input use it on their input.
func (o Opt[T]) Must() T {
	if !o.Valid {
		Violation(ErrCodeMissingInput, "machine stepped without an input")
	}
	return o.V
}

func (o Opt[T]) String() string {
	if !o.Valid {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.V)
}

// MapOpt applies f to a present value.
func MapOpt[T, U any](o Opt[T], f func(T) U) Opt[U] {
	if !o.Valid {
		return None[U]()
	}
	return Some(f(o.V))
}

// Pair is the product of two values. Parallel composition emits pairs.
type Pair[A, B any] struct {
	First  A
	Second B
}

// PairOf builds a Pair.
func PairOf[A, B any](a A, b B) Pair[A, B] {
	return Pair[A, B]{First: a, Second: b}
}

// Zip pairs two optional values; the result is present only if both are.
func Zip[A, B any](a Opt[A], b Opt[B]) Opt[Pair[A, B]] {
	if !a.Valid || !b.Valid {
		return None[Pair[A, B]]()
	}
	return Some(PairOf(a.V, b.V))
}

// Unzip splits an optional pair into two optional values.
func Unzip[A, B any](p Opt[Pair[A, B]]) (Opt[A], Opt[B]) {
	if !p.Valid {
		return None[A](), None[B]()
	}
	return Some(p.V.First), Some(p.V.Second)
}
