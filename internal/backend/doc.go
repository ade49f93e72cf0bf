// Package backend defines the capability interface every media source implements and
// the four sources the grabber ships with.
//
// Each source commits to a primary/fallback chain: when the primary extraction or
// download method fails, the fallback runs before any failure reaches the caller, and
// both produce identically shaped results. Download accepts a closed set of call shapes;
// a shape the source does not accept is rejected with ErrShapeMismatch before any side
// effect, which lets the call adapter walk down to a shape the source understands.
package backend
