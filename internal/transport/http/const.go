package http

import "time"

const (
	// DefaultTimeout is the default timeout for metadata and thumbnail requests.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is used when no rotation list is configured.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36" //nolint:lll
)

// BrowserUserAgents is the rotation used against media CDNs.
//
//nolint:gochecknoglobals,lll // Immutable list used as a constant.
var BrowserUserAgents = []string{
	DefaultUserAgent,
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_5) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0",
}
