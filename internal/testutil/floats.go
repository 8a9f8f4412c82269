package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Floats returns pointers to each value, for building optional sequences
// such as scenario inputs. NaN stands for an absent value.
func Floats(values ...float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		out[i] = &v
	}
	return out
}

// AssertFloatsInDelta checks that got has the length of want and that every
// element is within delta of its counterpart.
func AssertFloatsInDelta(t testing.TB, want, got []float64, delta float64) bool {
	t.Helper()
	if !assert.Len(t, got, len(want)) {
		return false
	}
	ok := true
	for i := range want {
		if !assert.InDelta(t, want[i], got[i], delta, "index %d", i) {
			ok = false
		}
	}
	return ok
}
