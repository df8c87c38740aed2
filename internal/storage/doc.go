// Package storage defines the persistence contracts for worldline
// state: the branch forest, the fact journal, keyframe snapshots, and
// operational telemetry.
//
// The in-memory store in internal/worldstate never touches these
// interfaces directly; hosts persist through them and rebuild sessions
// with internal/worldstate/replay. Implementations live in
// subpackages.
//
// ErrNotFound is the shared missing-record error across
// implementations.
package storage
