package utils

//go:generate $MOCKGEN -source=user_agent_provider.go -destination=mocks/user_agent_provider_mock.go

import "sync/atomic"

// UserAgentProvider is an interface that defines a method for retrieving a User-Agent string.
type UserAgentProvider interface {
	// GetUserAgent returns a User-Agent string.
	GetUserAgent() string
}

// SimpleUserAgentProvider returns the same User-Agent string for every request.
type SimpleUserAgentProvider struct {
	userAgent string
}

// NewSimpleUserAgentProvider creates and returns a new instance of SimpleUserAgentProvider.
func NewSimpleUserAgentProvider(userAgent string) UserAgentProvider {
	return &SimpleUserAgentProvider{userAgent: userAgent}
}

// GetUserAgent returns a User-Agent string.
func (p *SimpleUserAgentProvider) GetUserAgent() string {
	return p.userAgent
}

// RotatingUserAgentProvider cycles through a fixed list of User-Agent strings.
// Media CDNs throttle repeated identical agents less aggressively than a single one.
type RotatingUserAgentProvider struct {
	userAgents []string
	next       atomic.Uint64
}

// NewRotatingUserAgentProvider creates a provider cycling through userAgents.
// An empty list falls back to a SimpleUserAgentProvider returning fallback.
func NewRotatingUserAgentProvider(fallback string, userAgents ...string) UserAgentProvider {
	if len(userAgents) == 0 {
		return NewSimpleUserAgentProvider(fallback)
	}

	return &RotatingUserAgentProvider{userAgents: userAgents}
}

// GetUserAgent returns the next User-Agent string in the rotation. It is safe for concurrent use.
func (p *RotatingUserAgentProvider) GetUserAgent() string {
	index := p.next.Add(1) - 1

	return p.userAgents[index%uint64(len(p.userAgents))]
}
