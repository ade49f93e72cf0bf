// Package batch downloads many items one after another.
//
// Items run strictly in input order, one child task at a time, with optional pacing
// between them. A failed item becomes a failure-shaped result and the run moves on;
// Abort stops scheduling after the current item and keeps what is already done.
package batch
