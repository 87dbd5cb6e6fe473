package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "ucdump"

// maxBodySize caps how much of a response body is read into memory.
const maxBodySize = 32 << 20

// ErrResponseTooLarge is returned when a response body exceeds the size cap.
var ErrResponseTooLarge = errors.New("response too large")

// StatusError is returned when the server answers with a non-2xx status.
//
// Use errors.As to inspect the status code:
//
//	var se *http.StatusError
//	if errors.As(err, &se) && se.Code == 404 { ... }
type StatusError struct {
	Code   int
	Status string
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d: %s", e.URL, e.Code, e.Status)
}

// Client wraps HTTP GET requests against the catalog API and its image host.
//
// Client provides:
//   - Configured User-Agent header
//   - Optional overall request timeout
//   - Status code checking
//   - JSON decoding helper
//
// Example usage:
//
//	client := NewClient(30*time.Second, "")
//
//	// Fetch raw bytes
//	img, err := client.Get(ctx, "https://p1.music.126.net/cover.jpg")
//
//	// Decode a JSON document
//	var detail dto.DetailResponse
//	err = client.GetJSON(ctx, detailURL, &detail)
type Client struct {
	httpClient  *http.Client
	userAgent   string
	maxBodySize int64
}

// NewClient creates a new HTTP client.
//
// A zero timeout disables the client-side deadline; requests are then bounded
// only by the context passed to each call. An empty userAgent selects
// DefaultUserAgent.
func NewClient(timeout time.Duration, userAgent string) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		userAgent:   userAgent,
		maxBodySize: maxBodySize,
	}
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 2xx (a *StatusError)
//   - The body is larger than 32 MiB (ErrResponseTooLarge)
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, URL: url}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, fmt.Errorf("GET %s: %w (limit %d bytes)", url, ErrResponseTooLarge, c.maxBodySize)
	}
	return body, nil
}

// GetJSON performs a GET request and decodes the body into v.
//
// The Content-Type header is ignored; some catalog mirrors serve JSON as
// text/html.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
