package extractor

import "errors"

// Static error definitions for better error handling.
var (
	// ErrToolFailed indicates that an external tool exited with an error.
	ErrToolFailed = errors.New("external tool failed")
	// ErrEmptyOutput indicates that a tool printed nothing parseable.
	ErrEmptyOutput = errors.New("tool produced no output")
	// ErrNoItems indicates that a listing or a gallery dump returned no entries.
	ErrNoItems = errors.New("no items found")
	// ErrNoPlaylistID indicates a url without a list parameter.
	ErrNoPlaylistID = errors.New("url has no playlist id")
	// ErrUnexpectedHTTPStatus indicates an unexpected HTTP status code was received.
	ErrUnexpectedHTTPStatus = errors.New("unexpected HTTP status")
	// ErrOutputMissing indicates that a tool reported success without producing the file.
	ErrOutputMissing = errors.New("expected output file is missing")
)
