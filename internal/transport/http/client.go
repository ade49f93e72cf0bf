package http

import (
	"net/http"
	"time"

	"github.com/oshokin/media-grabber/internal/utils"
)

// NewClient builds the HTTP client shared by thumbnail fetches and oEmbed lookups.
// A non-positive timeout falls back to DefaultTimeout.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	headers := http.Header{}
	headers.Set("Accept-Language", "en-US,en;q=0.9")

	return &http.Client{
		Transport: NewHeaderInjector(
			NewLogTransport(http.DefaultTransport, 0),
			utils.NewRotatingUserAgentProvider(DefaultUserAgent, BrowserUserAgents...),
			headers),
		Timeout: timeout,
	}
}
