package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/oshokin/media-grabber/internal/logger"
)

const (
	// YouTubeOEmbedEndpoint is the public oEmbed endpoint of YouTube.
	YouTubeOEmbedEndpoint = "https://www.youtube.com/oembed"
	// oEmbedMaxRetries bounds retries of transient failures.
	oEmbedMaxRetries = 3
	// oEmbedInitialInterval is the first retry delay.
	oEmbedInitialInterval = 200 * time.Millisecond
)

// OEmbedInfo is the oEmbed response subset the grabber reads.
type OEmbedInfo struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// OEmbed queries an oEmbed endpoint, retrying server errors with exponential backoff.
type OEmbed struct {
	httpClient *http.Client
	endpoint   string
}

// NewOEmbed creates an oEmbed client.
func NewOEmbed(httpClient *http.Client, endpoint string) *OEmbed {
	if endpoint == "" {
		endpoint = YouTubeOEmbedEndpoint
	}

	return &OEmbed{httpClient: httpClient, endpoint: endpoint}
}

// Fetch returns the oEmbed description of pageURL.
func (o *OEmbed) Fetch(ctx context.Context, pageURL string) (*OEmbedInfo, error) {
	var info *OEmbedInfo

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = oEmbedInitialInterval

	operation := func() error {
		result, err := o.fetchOnce(ctx, pageURL)
		if err != nil {
			return err
		}

		info = result

		return nil
	}

	notify := func(err error, wait time.Duration) {
		logger.Debugf(ctx, "oEmbed request failed, retrying in %s: %v", wait, err)
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(backoff.WithMaxRetries(policy, oEmbedMaxRetries), ctx), notify)
	if err != nil {
		return nil, err
	}

	return info, nil
}

func (o *OEmbed) fetchOnce(ctx context.Context, pageURL string) (*OEmbedInfo, error) {
	query := url.Values{}
	query.Set("url", pageURL)
	query.Set("format", "json")

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, o.endpoint+"?"+query.Encode(), http.NoBody)
	if err != nil {
		return nil, backoff.Permanent(err)
	}

	response, err := o.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close() //nolint:errcheck // Error on close is not critical here.

	switch {
	case response.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	case response.StatusCode != http.StatusOK:
		return nil, backoff.Permanent(fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode))
	}

	var info OEmbedInfo
	if err = json.NewDecoder(response.Body).Decode(&info); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to decode oEmbed response: %w", err))
	}

	return &info, nil
}
