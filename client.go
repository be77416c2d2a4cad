package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultAPIBase = "https://api.tradingeconomics.com"

	// Body returned by the API when the key's tier does not cover a country.
	accessRestrictedSentinel = "No Access to this country as free user."

	maxErrorBody = 64 << 10
)

type indicatorFetcher interface {
	FetchCountry(ctx context.Context, country string) ([]Indicator, error)
}

// APIError is a non-2xx response from the indicator API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("indicator api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("indicator api returned status %d: %s", e.StatusCode, body)
}

// isAccessRestricted reports whether err carries the tier restriction
// message, returning the body verbatim for display.
func isAccessRestricted(err error) (string, bool) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return "", false
	}
	if !strings.Contains(apiErr.Body, accessRestrictedSentinel) {
		return "", false
	}
	return apiErr.Body, true
}

// Client calls the indicator API with a fixed access key.
type Client struct {
	baseURL   string
	accessKey string
	http      *http.Client
}

// NewClient defaults an empty base URL and a non-positive timeout.
func NewClient(baseURL, accessKey string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultAPIBase
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:   baseURL,
		accessKey: accessKey,
		http:      &http.Client{Timeout: timeout},
	}
}

func (c *Client) endpoint(country string) string {
	query := url.Values{"c": []string{c.accessKey}}
	return fmt.Sprintf("%s/country/%s?%s", c.baseURL, url.PathEscape(country), query.Encode())
}

// FetchCountry issues a single GET for the country's indicators.
func (c *Client) FetchCountry(ctx context.Context, country string) ([]Indicator, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(country), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", country, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			return nil, fmt.Errorf("read %s error body: %w", country, err)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var records []Indicator
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode %s indicators: %w", country, err)
	}
	return records, nil
}
