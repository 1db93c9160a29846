package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"twdl/app/apperr"
	"twdl/pkg/config"

	"github.com/samber/do"
	"golang.org/x/time/rate"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.Twitch.HelixURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Twitch.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.Twitch.RequestsPerSecond), 1),
	}, nil
}

func (c *Client) GetClips(ctx context.Context, token *AccessToken, params *GetClipsParams) (*ClipsResponse, error) {
	queryParams := url.Values{}

	if params.BroadcasterID != "" {
		queryParams.Add("broadcaster_id", params.BroadcasterID)
	}
	if params.GameID != "" {
		queryParams.Add("game_id", params.GameID)
	}
	if len(params.IDs) > 0 {
		for _, id := range params.IDs {
			queryParams.Add("id", id)
		}
	}
	if params.First > 0 {
		queryParams.Add("first", strconv.Itoa(params.First))
	}
	if params.After != "" {
		queryParams.Add("after", params.After)
	}
	if params.Before != "" {
		queryParams.Add("before", params.Before)
	}
	if !params.StartedAt.IsZero() {
		queryParams.Add("started_at", params.StartedAt.UTC().Format(time.RFC3339))
	}
	if !params.EndedAt.IsZero() {
		queryParams.Add("ended_at", params.EndedAt.UTC().Format(time.RFC3339))
	}

	var clipsResponse ClipsResponse
	if err := c.get(ctx, token, "/clips", queryParams, &clipsResponse); err != nil {
		return nil, err
	}

	return &clipsResponse, nil
}

// GetClip fetches a single clip by slug with exactly one request.
func (c *Client) GetClip(ctx context.Context, token *AccessToken, slug string) (*Clip, error) {
	res, err := c.GetClips(ctx, token, &GetClipsParams{IDs: []string{slug}})
	if err != nil {
		return nil, err
	}

	if len(res.Data) == 0 {
		return nil, fmt.Errorf("%w: clip %s", apperr.ErrNotFound, slug)
	}

	return &res.Data[0], nil
}

func (c *Client) GetUserByLogin(ctx context.Context, token *AccessToken, login string) (*User, error) {
	queryParams := url.Values{}
	queryParams.Add("login", login)

	var response usersResponse
	if err := c.get(ctx, token, "/users", queryParams, &response); err != nil {
		return nil, err
	}

	if len(response.Data) == 0 {
		return nil, fmt.Errorf("%w: user with login %s", apperr.ErrNotFound, login)
	}

	return &response.Data[0], nil
}

func (c *Client) get(ctx context.Context, token *AccessToken, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %w", apperr.ErrAPI, err)
	}

	requestURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("%w: creating request failed: %w", apperr.ErrAPI, err)
	}

	req.Header.Set("Authorization", "Bearer "+token.Value)
	req.Header.Set("Client-Id", token.ClientID)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: HTTP request failed: %w", apperr.ErrAPI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s", apperr.ErrAPI, describeError(resp.StatusCode, body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response failed: %w", apperr.ErrParse, err)
	}

	return nil
}

func describeError(status int, body []byte) string {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Sprintf("API request failed: status %d: %s", status, apiErr.Message)
	}

	return fmt.Sprintf("API request failed: status %d, body: %s", status, strings.TrimSpace(string(body)))
}
