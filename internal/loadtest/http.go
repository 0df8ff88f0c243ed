package loadtest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// client wraps http.Client with a per-request timeout and a base URL.
type client struct {
	http    *http.Client
	baseURL string
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// get fetches path and returns the status and body.
func (c *client) get(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// getJSON fetches path and decodes a 200 body into v.
func (c *client) getJSON(ctx context.Context, path string, v any) error {
	status, body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", path, status)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	return nil
}

// recommendPath renders q as a /recommendations request path.
func recommendPath(q Query) string {
	v := url.Values{}
	v.Set("job_role", q.JobRole)
	if q.Paid != nil {
		v.Set("paid", strconv.FormatBool(*q.Paid))
	}
	if q.Platform != "" {
		v.Set("platform", q.Platform)
	}
	if len(q.UserSkills) > 0 {
		v.Set("user_skills", strings.Join(q.UserSkills, ","))
	}
	if q.Goal != "" {
		v.Set("goal", q.Goal)
	}
	if q.UseAI {
		v.Set("use_ai", "true")
	}
	return "/recommendations?" + v.Encode()
}
