// Package sig implements discrete-time signals: values indexed by integer
// ticks, possibly sampled out of order.
package sig

import (
	"iter"
	"math"

	"github.com/Fay3V/601/internal/sm"
)

// Signal maps a tick index to a value. Implementations must return the same
// value for the same index; Transduced signals rely on a deterministic
// machine for this.
type Signal[T any] interface {
	Sample(n int) T
}

// Func adapts a plain function to a Signal.
type Func[T any] func(n int) T

// Sample implements Signal.
func (f Func[T]) Sample(n int) T {
	return f(n)
}

// Unit is 1 at index 0 and 0 elsewhere.
func Unit() Signal[float64] {
	return Func[float64](func(n int) float64 {
		if n == 0 {
			return 1
		}
		return 0
	})
}

// Step is 0 before index 0 and 1 from index 0 on.
func Step() Signal[float64] {
	return Func[float64](func(n int) float64 {
		if n < 0 {
			return 0
		}
		return 1
	})
}

// Constant is v at every index.
func Constant[T any](v T) Signal[T] {
	return Func[T](func(int) T { return v })
}

// Cosine is cos(omega·n + theta).
func Cosine(omega, theta float64) Signal[float64] {
	return Func[float64](func(n int) float64 {
		return math.Cos(omega*float64(n) + theta)
	})
}

// FromSlice is values[n] for indices inside the slice and the zero value
// outside.
func FromSlice[T any](values []T) Signal[T] {
	values = append([]T(nil), values...)
	return Func[T](func(n int) T {
		if n < 0 || n >= len(values) {
			var zero T
			return zero
		}
		return values[n]
	})
}

// Scale multiplies every sample by k.
func Scale[T sm.Number](s Signal[T], k T) Signal[T] {
	return Func[T](func(n int) T { return k * s.Sample(n) })
}

// Delay shifts s later by r ticks: the sample at n is s at n-r.
func Delay[T any](s Signal[T], r int) Signal[T] {
	return Func[T](func(n int) T { return s.Sample(n - r) })
}

// Add sums two signals sample by sample.
func Add[T sm.Number](a, b Signal[T]) Signal[T] {
	return Func[T](func(n int) T { return a.Sample(n) + b.Sample(n) })
}

// Sub subtracts b from a sample by sample.
func Sub[T sm.Number](a, b Signal[T]) Signal[T] {
	return Func[T](func(n int) T { return a.Sample(n) - b.Sample(n) })
}

// Poly applies an FIR filter: the sample at n is Σ coeffs[k]·s(n-k).
func Poly[T sm.Number](s Signal[T], coeffs ...T) Signal[T] {
	coeffs = append([]T(nil), coeffs...)
	return Func[T](func(n int) T {
		var sum T
		for k, c := range coeffs {
			sum += c * s.Sample(n-k)
		}
		return sum
	})
}

// Samples returns count samples of s starting at index from.
func Samples[T any](s Signal[T], from, count int) []T {
	out := make([]T, count)
	for i := range out {
		out[i] = s.Sample(from + i)
	}
	return out
}

// All yields (index, sample) for index 0, 1, 2, ... until the consumer stops.
func All[T any](s Signal[T]) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for n := 0; ; n++ {
			if !yield(n, s.Sample(n)) {
				return
			}
		}
	}
}
