// Package compiler turns CUE model files into system functions.
//
// A models directory holds one CUE package. Every entry under the top-level
// system struct names one linear time-invariant system, either directly as
// a ratio of polynomials in R or as a composition of other entries:
//
//	system: {
//		plant:      {numerator: [1], denominator: [-0.5, 1]}
//		controller: {gain: 2}
//		open:       {cascade: ["controller", "plant"]}
//		closed:     {feedback: "open", sign: "sub"}
//	}
//
// Coefficients are listed highest power of R first. The CUE schema in
// schema.go constrains the shape of each entry before the Go side resolves
// references, so malformed lists are reported with CUE positions.
//
// Entries are compiled in dependency order. A reference to an unknown entry
// or a reference cycle is a *CompileError.
package compiler
