package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mergington/activities/internal/domain/types"
)

// Client is a thin HTTP client for the activities API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Health returns nil when GET /healthz answers 200.
func (c *Client) Health(ctx context.Context) error {
	status, _, err := c.do(ctx, http.MethodGet, c.baseURL+"/healthz")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("health check returned status %d", status)
	}
	return nil
}

// Activities fetches the activity list in service order.
func (c *Client) Activities(ctx context.Context) (types.ActivityList, error) {
	status, body, err := c.do(ctx, http.MethodGet, c.baseURL+"/activities")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("list activities returned status %d", status)
	}
	var list types.ActivityList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}
	return list, nil
}

// Signup posts a signup and returns the HTTP status and decoded detail or message.
func (c *Client) Signup(ctx context.Context, activity, email string) (int, string, error) {
	return c.membership(ctx, "signup", activity, email)
}

// Unregister posts an unregister and returns the HTTP status and decoded detail or message.
func (c *Client) Unregister(ctx context.Context, activity, email string) (int, string, error) {
	return c.membership(ctx, "unregister", activity, email)
}

func (c *Client) membership(ctx context.Context, action, activity, email string) (int, string, error) {
	target := fmt.Sprintf("%s/activities/%s/%s?email=%s",
		c.baseURL, url.PathEscape(activity), action, url.QueryEscape(email))
	status, body, err := c.do(ctx, http.MethodPost, target)
	if err != nil {
		return 0, "", err
	}

	if status == http.StatusOK {
		var msg types.MessageResponse
		if err := json.Unmarshal(body, &msg); err != nil {
			return status, "", fmt.Errorf("decode message: %w", err)
		}
		return status, msg.Message, nil
	}
	var detail types.ErrorDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return status, "", fmt.Errorf("decode error detail: %w", err)
	}
	return status, detail.Detail, nil
}

func (c *Client) do(ctx context.Context, method, target string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, http.NoBody)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}
