// Package trace records the observable behavior of a driven machine and
// serializes it deterministically.
//
// A trace is the ordered list of ticks a driver executed: the input given,
// the output produced (either may be absent) and whether the machine was
// done after the step. Traces are compared across runs by their canonical
// JSON form and its digest, never by in-memory equality.
//
// Canonical JSON rules:
//   - Object keys sorted by UTF-16 code units
//   - No HTML escaping; strings NFC normalized
//   - Numbers in shortest round-trip form; NaN and Inf rejected
//   - No insignificant whitespace
package trace
