// Package media defines the values exchanged between backends and the orchestration layer:
// references to downloadable items, raw and normalized quality formats, download requests,
// and per-item and batch results.
package media
