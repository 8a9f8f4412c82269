// Package harness runs state-machine scenarios described in YAML and checks
// the recorded trace against expectations.
//
// The harness is the dynamic boundary of the library: a scenario names a
// machine as a tree of nodes, every port carries float64, and the tree is
// assembled into a typed sm.Machine at load time. Nothing inside the
// combinators knows about scenarios.
//
// # Scenario Format
//
//	name: accumulate
//	description: "Running sum inside a feedback loop"
//	machine:
//	  feedback_add:
//	    cascade:
//	      - delay: 0
//	inputs: [1, 2, 3, null, 4]
//	expect:
//	  outputs: [0, 1, 3, 6, null]
//	  tolerance: 1e-9
//
// Instead of inputs a scenario may give steps, the number of self-clocked
// ticks to drive. A system node realizes a transfer function, either from
// coefficients in R or by name from the CUE models directory:
//
//	models: ../models
//	machine:
//	  system:
//	    model: closed
//	steps: 10
//	expect:
//	  poles: [{re: 0.1666666667}]
//	  stable: true
//
// # Ticks
//
// Each step is stamped with the next value of a logical clock and recorded
// as a trace.Tick, absent outputs included. Driving stops early when the
// machine reports done. An invariant violation raised by a combinator stops
// the run and is reported in Result.Errors with its code.
//
// # Golden Files
//
// RunWithGolden compares the canonical JSON of the trace against
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
