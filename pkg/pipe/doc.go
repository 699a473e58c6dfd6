// Package pipe implements a small synchronous combinator engine for chaining
// transformations over heterogeneous data.
//
// Every stage operates on a canonical Value, a closed tagged union over four
// container kinds (scalar, sequence, set, mapping). Arbitrary Go values enter
// through the Of adapter, which drains single-use iterables and normalizes
// nesting so downstream stages always see a predictable, multi-use container.
//
// Highlights:
// - Of/Scalar/List/NewSet/MapOf: construct canonical values
// - Flatten: collapse strictly-singleton sequence nesting
// - New/Bind: build a Pipe around a fallible function; faults and panics are
//   absorbed into an absent Outcome plus a warning, never propagated
// - Then/Compose: sequential composition; Apply triggers evaluation
// - Map/Filter/Reduce/Join/Concat/ToSet/SetUnion/SetInter: derived combinators
// - Print: side-effecting identity for inline inspection
//
// A single bad element never aborts a chain: element combinators drop faulting
// elements and report the reason through the injected Warnings collector.
package pipe
