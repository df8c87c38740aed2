// Package window implements the ordered seek structures behind
// temporal lookup: Window, a dual-stack sequence of (index, value)
// pairs with an amortized O(1) cursor under sequential access, and
// Turns, a two-level Window keyed by turn and tick.
//
// A Window keeps its entries split into a past stack (at or before the
// cursor) and a future stack (after it). Seeking moves entries between
// the two ends, so repeated seeks to the same or neighboring indexes
// cost O(1) amortized; a far jump pays for the distance moved once.
//
// Neither type locks; callers serialize access.
package window
