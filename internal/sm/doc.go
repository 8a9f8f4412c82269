// Package sm implements discrete-time state machines and the combinators
// that compose them.
//
// A Machine is an immutable definition: it constructs a start State, computes
// the next (State, output) pair from a State and an optional input, and
// reports whether a State is terminal. All progress lives in the State values
// threaded through Next; definitions can be shared freely.
//
// ARCHITECTURE:
//
// Definitions and states:
//   - Machine[I, O] is the three-method contract (Start, Next, Done)
//   - State is opaque; combinators wrap child states in small value structs
//   - States are replaced wholesale on every transition, never mutated
//
// Optional values:
// An absent input (None) means "no external driving value this tick". An
// absent output means "no value this tick" and is an ordinary control value,
// not an error.
//
// Driving:
//   - StateFull pairs one Machine with one live State (Reset, Step, IsDone)
//   - Transduce and Run drive a fresh machine over inputs or self-clocked
//   - Drivers stop before stepping a done state and at the first absent output
//
// CRITICAL PATTERNS:
//
// Two-phase feedback:
// Feedback first asks the wrapped machine for its output with no input, then
// feeds that output back in to compute the new state. This is only sound when
// the loop contains a state-holding element (Delay) whose output depends on
// state alone.
//
// Determinism:
// Next must return identical results for identical (State, input) pairs. The
// signal bridge replays transitions and depends on it.
//
// Invariant violations (a machine stepped without a required input, a state
// of the wrong shape) panic with *InvariantError. Boundary code converts them
// to errors with Recover.
package sm
