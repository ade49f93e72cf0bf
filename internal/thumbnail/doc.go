// Package thumbnail fetches preview images in the background.
//
// Fetcher retrieves and caches image bytes. Loader keeps a single current fetch:
// a new request cancels the one in flight, and a delivery that is no longer current
// is dropped, so a slow stale image never replaces a newer one.
package thumbnail
