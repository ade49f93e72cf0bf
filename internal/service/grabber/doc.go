// Package grabber drives the downloads of one command run.
// It resolves URLs to backends, starts one task per URL on the coordinating goroutine,
// feeds playlists, galleries and profiles through the batch runner, and records every
// finished item in the history and the session statistics.
package grabber
