package gql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"twdl/app/apperr"
	"twdl/pkg/config"

	"github.com/samber/do"
)

const accessTokenQuery = `query VideoAccessToken_Clip($slug: ID!) {
  clip(slug: $slug) {
    playbackAccessToken(params: {platform: "web", playerBackend: "mediaplayer", playerType: "site"}) {
      signature
      value
    }
    videoQualities {
      quality
      frameRate
      sourceURL
    }
  }
}`

// Client looks up signed clip source URLs through the public Twitch GraphQL endpoint.
// It needs no app credentials.
type Client struct {
	url      string
	clientID string
	client   *http.Client
}

func New(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return &Client{
		url:      cfg.Twitch.GQLURL,
		clientID: cfg.Twitch.GQLClientID,
		client:   &http.Client{Timeout: cfg.Twitch.Timeout},
	}, nil
}

// SourceURL returns the signed URL of the highest quality rendition of the clip.
func (c *Client) SourceURL(ctx context.Context, slug string) (string, error) {
	accessToken, err := c.getClipAccessToken(ctx, slug)
	if err != nil {
		return "", fmt.Errorf("could not get clip access token: %w", err)
	}

	best, ok := bestQuality(accessToken.VideoQualities)
	if !ok {
		return "", fmt.Errorf("%w: no video qualities available for clip: %s", apperr.ErrNotFound, slug)
	}

	params := url.Values{}
	params.Add("sig", accessToken.PlaybackAccessToken.Signature)
	params.Add("token", accessToken.PlaybackAccessToken.Value)

	return fmt.Sprintf("%s?%s", best.SourceURL, params.Encode()), nil
}

func (c *Client) getClipAccessToken(ctx context.Context, slug string) (*ClipAccessToken, error) {
	query := map[string]any{
		"operationName": "VideoAccessToken_Clip",
		"variables":     map[string]string{"slug": slug},
		"query":         accessTokenQuery,
	}

	queryBytes, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("could not marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(queryBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: could not create request: %w", apperr.ErrAPI, err)
	}

	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: could not do request: %w", apperr.ErrAPI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: GQL request failed with status: %s", apperr.ErrAPI, resp.Status)
	}

	var response accessTokenResponse
	if err = json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response body: %w", apperr.ErrParse, err)
	}

	if len(response.Errors) > 0 {
		return nil, fmt.Errorf("%w: GQL error: %s", apperr.ErrAPI, response.Errors[0].Message)
	}

	if response.Data.Clip == nil {
		return nil, fmt.Errorf("%w: clip %s", apperr.ErrNotFound, slug)
	}

	return response.Data.Clip, nil
}

// bestQuality picks the rendition with the highest numeric quality. Renditions with a
// non-numeric quality label are ignored.
func bestQuality(qualities []VideoQuality) (VideoQuality, bool) {
	var (
		best      VideoQuality
		bestValue = -1
	)

	for _, q := range qualities {
		value, err := strconv.Atoi(q.Quality)
		if err != nil || q.SourceURL == "" {
			continue
		}
		if value > bestValue {
			best, bestValue = q, value
		}
	}

	return best, bestValue >= 0
}
