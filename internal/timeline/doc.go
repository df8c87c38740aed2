// Package timeline models simulation time and the branch forest.
//
// Time within one branch is a (turn, tick) pair: turns are coarse
// simulation steps, ticks number the individual writes inside a turn.
// Time is totally ordered within a branch and only partially ordered
// across branches, up to their common ancestor.
//
// Branches form a forest. A trunk branch has no parent; every other
// branch records the parent it diverged from and the (turn, tick) of
// the divergence. The Graph validates branch creation atomically and
// walks ancestor chains iteratively.
package timeline
