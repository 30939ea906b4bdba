package chart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// Client fetches risk rows from the ingestion service. Responses are
// decoded as generic rows so the alias catalog applies regardless of the
// upstream column spelling.
type Client struct {
	baseURL  string
	http     *http.Client
	attempts int
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout, Transport: transport},
		attempts: 3,
	}
}

// FetchRiskRows pulls every risk record, newest first, retrying transient
// network failures with capped exponential backoff.
func (c *Client) FetchRiskRows(ctx context.Context) ([]map[string]interface{}, error) {
	var rows []map[string]interface{}

	err := retry(ctx, c.attempts, 100*time.Millisecond, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/risk-data", nil)
		if err != nil {
			return err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("risk-data returned status %d", resp.StatusCode)
		}

		rows = nil
		return json.NewDecoder(resp.Body).Decode(&rows)
	})
	if err != nil {
		return nil, fmt.Errorf("fetching risk data: %w", err)
	}
	return rows, nil
}

func retry(ctx context.Context, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts <= 1 {
		return fn()
	}

	var err error
	delay := baseDelay
	for i := 0; i < attempts; i++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err = fn()
		if err == nil {
			return nil
		}
		if !isRetriable(err) || i == attempts-1 {
			break
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}

		delay *= 2
		if delay > 2*time.Second {
			delay = 2 * time.Second
		}
	}

	return err
}

func isRetriable(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return errors.Is(err, context.DeadlineExceeded)
}
