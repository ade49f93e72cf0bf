package backend

import (
	"fmt"
	"regexp"

	"github.com/oshokin/media-grabber/internal/media"
	"github.com/oshokin/media-grabber/internal/utils"
)

// platformsByPatterns maps host patterns to platforms.
//
//nolint:gochecknoglobals // Immutable lookup table compiled once.
var platformsByPatterns = []struct {
	// Pattern captures the matched host in the "host" group.
	Pattern *regexp.Regexp
	// Platform is the platform of matching URLs.
	Platform media.Platform
}{
	{regexp.MustCompile(`(?i)^(?:https?://)?(?:[\w-]+\.)*(?<host>youtube\.com|youtu\.be)(?:[:/?#]|$)`), media.PlatformYouTube},
	{regexp.MustCompile(`(?i)^(?:https?://)?(?:[\w-]+\.)*(?<host>instagram\.com)(?:[:/?#]|$)`), media.PlatformInstagram},
	{regexp.MustCompile(`(?i)^(?:https?://)?(?:[\w-]+\.)*(?<host>tiktok\.com)(?:[:/?#]|$)`), media.PlatformTikTok},
	{regexp.MustCompile(`(?i)^(?:https?://)?(?:[\w-]+\.)*(?<host>facebook\.com|fb\.watch)(?:[:/?#]|$)`), media.PlatformFacebook},
}

// DetectPlatform returns the platform a url belongs to, or media.PlatformUnknown.
func DetectPlatform(url string) media.Platform {
	for _, p := range platformsByPatterns {
		if utils.ExtractNamedGroup(p.Pattern, "host", url) != "" {
			return p.Platform
		}
	}

	return media.PlatformUnknown
}

// Registry dispatches by platform to the registered backend.
type Registry struct {
	backends map[media.Platform]Backend
}

// NewRegistry registers backends by their platform. A later backend replaces an earlier one.
func NewRegistry(backends ...Backend) *Registry {
	r := &Registry{backends: make(map[media.Platform]Backend, len(backends))}

	for _, b := range backends {
		r.backends[b.Platform()] = b
	}

	return r
}

// NewDefaultRegistry wires the four shipped backends over tools. Metadata lookups are
// cached when cacheOpts.TTL is positive.
func NewDefaultRegistry(tools Toolbox, batchLimit int, cacheOpts CacheOptions) *Registry {
	backends := []Backend{
		NewYouTube(tools, batchLimit),
		NewInstagram(tools),
		NewTikTok(tools),
		NewFacebook(tools),
	}

	if cacheOpts.TTL > 0 {
		for i, b := range backends {
			backends[i] = NewCached(b, cacheOpts)
		}
	}

	return NewRegistry(backends...)
}

// Get returns the backend of platform.
func (r *Registry) Get(platform media.Platform) (Backend, error) {
	b, ok := r.backends[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoBackend, platform)
	}

	return b, nil
}

// ForURL detects the platform of url and returns its backend.
func (r *Registry) ForURL(url string) (Backend, error) {
	platform := DetectPlatform(url)
	if platform == media.PlatformUnknown {
		return nil, fmt.Errorf("%w: %s", media.ErrUnknownPlatform, url)
	}

	return r.Get(platform)
}
