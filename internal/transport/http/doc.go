// Package http provides the HTTP client used for thumbnails and oEmbed lookups:
// header injection with rotating User-Agent strings and debug-level request/response dumps.
package http
