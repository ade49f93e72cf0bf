package http

import (
	"net/http"

	"github.com/oshokin/media-grabber/internal/utils"
)

// HeaderInjector is an http.RoundTripper that fills in a User-Agent and a set of static headers
// when the request does not carry them already.
type HeaderInjector struct {
	next              http.RoundTripper
	userAgentProvider utils.UserAgentProvider
	headers           http.Header
}

// userAgentHeader is the HTTP header name for User-Agent.
const userAgentHeader = "User-Agent"

// NewHeaderInjector wraps next. headers may be nil.
func NewHeaderInjector(
	next http.RoundTripper,
	userAgentProvider utils.UserAgentProvider,
	headers http.Header,
) http.RoundTripper {
	return &HeaderInjector{
		next:              next,
		userAgentProvider: userAgentProvider,
		headers:           headers,
	}
}

// RoundTrip implements http.RoundTripper. The original request is cloned before it is modified.
func (t *HeaderInjector) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	req = req.Clone(req.Context())

	if req.Header.Get(userAgentHeader) == "" {
		req.Header.Set(userAgentHeader, t.userAgentProvider.GetUserAgent())
	}

	for name, values := range t.headers {
		if req.Header.Get(name) != "" || len(values) == 0 {
			continue
		}

		req.Header[name] = values
	}

	return t.next.RoundTrip(req)
}
