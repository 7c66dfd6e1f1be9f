package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// HTTPError is returned when the backend answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("catalog backend returned status %d", e.StatusCode)
}

// Client talks to the backend catalog and channel directory endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	channels   singleflight.Group
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) ListVideos(ctx context.Context, q Query) (*Page, error) {
	var page Page
	if err := c.getJSON(ctx, "/videos?"+q.Values().Encode(), &page); err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	if page.Items == nil {
		page.Items = []Entry{}
	}
	return &page, nil
}

// PopularChannels fetches the channel directory. Concurrent calls for the
// same limit share one upstream request; a caller whose ctx ends stops
// waiting without cancelling the request for the others.
func (c *Client) PopularChannels(ctx context.Context, limit int) ([]ChannelSummary, error) {
	key := strconv.Itoa(limit)
	flightCtx := context.WithoutCancel(ctx)
	ch := c.channels.DoChan(key, func() (any, error) {
		var channels []ChannelSummary
		if err := c.getJSON(flightCtx, "/channels/popular?limit="+key, &channels); err != nil {
			return nil, err
		}
		return channels, nil
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("popular channels: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("popular channels: %w", res.Err)
		}
		return res.Val.([]ChannelSummary), nil
	}
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, Body: body}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
