// Package adapter invokes a backend download with the most specific argument shape it accepts.
//
// A request is turned into a descending list of candidate calls (full, typed, quality, basic).
// Each candidate is tried in order; a shape mismatch moves to the next one, anything else
// is the final outcome. Backends reject shapes before any side effect, so at most one
// candidate does real work.
package adapter
