// Package worldstate is the versioned, branch-structured store for
// graph-shaped world state. Any stat of any entity can change at any
// (turn, tick); the store answers point-in-time lookups in amortized
// constant time under sequential time travel, supports branch forks
// with inherited history, bounds lookups with keyframes, and computes
// deltas between two time points.
//
// A Store is constructed once per simulation session and passed
// explicitly; there is no ambient global state. It assumes one logical
// writer and reader: embedding hosts that share a Store across
// goroutines must serialize access, for which a single coarse mutex
// around the store is sufficient. No operation blocks or performs I/O.
//
// Rule logic, durable persistence, and the object facade over
// characters and places are collaborators, not part of this package:
// facts arrive already decided and deserialized, and keyframe
// recomputation after a historical edit is signaled outward through
// OnKeyframeInvalidated rather than performed here.
package worldstate
