package playlistsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const fallbackMessage = "YouTube request failed"

// ResponseError is a non-2xx answer from the backend, carrying the message
// to show the user.
type ResponseError struct {
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// Request is the sync payload; ids are pushed in order.
type Request struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	VideoIDs    []string `json:"video_ids"`
}

// Client speaks the backend's YouTube authorization and playlist endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
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

func (c *Client) Authorized(ctx context.Context) (bool, error) {
	var status struct {
		Authorized bool `json:"authorized"`
	}
	if err := c.do(ctx, http.MethodGet, "/youtube/status", nil, &status); err != nil {
		return false, fmt.Errorf("check authorization: %w", err)
	}
	return status.Authorized, nil
}

// AuthURL is a full-page navigation target, never fetched by the client.
func (c *Client) AuthURL() string {
	return c.baseURL + "/youtube/auth"
}

func (c *Client) Push(ctx context.Context, req Request) (string, error) {
	if req.VideoIDs == nil {
		req.VideoIDs = []string{}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal sync request: %w", err)
	}

	var out struct {
		PlaylistURL string `json:"playlist_url"`
	}
	if err := c.do(ctx, http.MethodPost, "/playlists/weekly/sync", body, &out); err != nil {
		return "", fmt.Errorf("sync playlist: %w", err)
	}
	return out.PlaylistURL, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, v any) error {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

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
		return &ResponseError{StatusCode: resp.StatusCode, Message: responseMessage(resp.StatusCode, body)}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// responseMessage prefers the body's detail, then message, then the status
// text.
func responseMessage(status int, body []byte) string {
	var payload struct {
		Detail  any `json:"detail"`
		Message any `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if s, ok := payload.Detail.(string); ok && s != "" {
			return s
		}
		if s, ok := payload.Message.(string); ok && s != "" {
			return s
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fallbackMessage
}
