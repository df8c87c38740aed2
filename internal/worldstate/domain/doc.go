// Package domain defines the value types of the world-state store:
// entity paths, facts, keyframes, and deltas.
package domain
