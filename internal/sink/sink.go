// Package sink delivers a serialized batch to HTTP endpoints.
package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fatih/color"
)

// DefaultTimeout bounds one POST when the caller does not configure one.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response body is kept for logging.
const maxErrorBody = 512

var ErrDelivery = errors.New("sink delivery failed")

// DeliveryError reports a transport failure or a non-2xx response from
// one endpoint.
type DeliveryError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to deliver to %s: %v", e.URL, e.Err)
	}
	msg := fmt.Sprintf("failed to deliver to %s: status %d", e.URL, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *DeliveryError) Is(target error) bool { return target == ErrDelivery }

func (e *DeliveryError) Unwrap() error { return e.Err }

// Result is the outcome of delivering to one endpoint.
type Result struct {
	URL        string
	StatusCode int
	Err        error
}

func (r Result) OK() bool { return r.Err == nil }

type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}

// Post submits body as one JSON POST to endpoint. Any status outside 2xx is
// a *DeliveryError.
func (c *Client) Post(ctx context.Context, endpoint string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, &DeliveryError{URL: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &DeliveryError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, &DeliveryError{
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(msg)),
		}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// Deliver posts body to every endpoint in order. A failing endpoint is
// logged and does not stop delivery to the rest.
func (c *Client) Deliver(ctx context.Context, body []byte, endpoints []string) []Result {
	results := make([]Result, 0, len(endpoints))
	for _, endpoint := range endpoints {
		status, err := c.Post(ctx, endpoint, body)
		results = append(results, Result{URL: endpoint, StatusCode: status, Err: err})
		if err != nil {
			color.Red("❌ %v", err)
			continue
		}
		color.Green("✅ Sent data to %s (status %d)", endpoint, status)
	}
	return results
}

// ParseEndpoints splits a comma-separated list of URLs. Blank entries are
// skipped; an entry that is not an absolute http(s) URL is an error.
func ParseEndpoints(list ...string) ([]string, error) {
	var endpoints []string
	for _, item := range list {
		for _, raw := range strings.Split(item, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			u, err := url.Parse(raw)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return nil, fmt.Errorf("invalid endpoint %q: expected an http(s) URL", raw)
			}
			endpoints = append(endpoints, raw)
		}
	}
	return endpoints, nil
}

// Failed returns the results that did not succeed.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	return failed
}
