package fediapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// Defaults used when the corresponding option is not given.
const (
	DefaultRetryDelay = 100 * time.Millisecond
	DefaultTimeout    = 2 * time.Minute
	DefaultUserAgent  = "go-fedicomments"
)

// maxErrorBody bounds how much of an error response ends up in StatusError.
const maxErrorBody = 512

// Client performs JSON requests against fediverse instances.
// It is safe for concurrent use.
type Client struct {
	http       *http.Client
	retryDelay time.Duration
	userAgent  string
	logger     logrus.FieldLogger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRetryDelay sets the pause before retrying a 429 response.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		if d >= 0 {
			c.retryDelay = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger used for retries and failures.
func WithLogger(l logrus.FieldLogger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient returns a Client with DefaultTimeout, DefaultRetryDelay and a
// discard logger unless overridden.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http:       &http.Client{Timeout: DefaultTimeout},
		retryDelay: DefaultRetryDelay,
		userAgent:  DefaultUserAgent,
		logger:     discardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON fetches https://{instance}{path}?{query} and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, instance, path string, query url.Values, out any) error {
	target := endpoint(instance, path)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, target, nil, out)
}

// PostJSON sends body as JSON to https://{instance}{path} and decodes the
// response into out.
func (c *Client) PostJSON(ctx context.Context, instance, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request for %s: %w", path, err)
	}
	return c.do(ctx, http.MethodPost, endpoint(instance, path), payload, out)
}

// do runs one logical request, retrying for as long as the server answers 429.
func (c *Client) do(ctx context.Context, method, target string, payload []byte, out any) error {
	for attempt := 1; ; attempt++ {
		data, code, err := c.roundTrip(ctx, method, target, payload)
		if err != nil {
			return err
		}

		if code == http.StatusTooManyRequests {
			c.logger.WithFields(logrus.Fields{
				"url":     target,
				"attempt": attempt,
			}).Debug("rate limited, retrying")
			if err := sleep(ctx, c.retryDelay); err != nil {
				return err
			}
			continue
		}

		if code < 200 || code >= 300 {
			return &StatusError{Method: method, URL: target, Code: code, Body: truncate(string(data), maxErrorBody)}
		}

		if out == nil {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w from %s: %v", ErrDecode, target, err)
		}
		return nil
	}
}

func (c *Client) roundTrip(ctx context.Context, method, target string, payload []byte) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request to %s: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("reading response from %s: %w", target, err)
	}
	return data, resp.StatusCode, nil
}

func endpoint(instance, path string) string {
	return "https://" + instance + path
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
