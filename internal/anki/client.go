package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kpauljoseph/ankimcp/pkg/logger"
)

const (
	// RequestTimeout bounds each individual HTTP attempt. Large
	// collections make cardsInfo genuinely slow, so this is generous.
	RequestTimeout = 30 * time.Second

	// MaxResponseBytes caps how much of a reply this client will read.
	MaxResponseBytes = 50 * 1024 * 1024

	// MaxRetries is the number of additional attempts after a connection
	// reset. Other failure kinds are never retried.
	MaxRetries = 3

	// RetryDelay is the wait before the first retry; it doubles on each
	// subsequent one.
	RetryDelay = 500 * time.Millisecond

	// PostCallDelay spaces successive calls so that Anki's single
	// threaded request handler is never hammered back to back.
	PostCallDelay = 50 * time.Millisecond
)

// Client issues single AnkiConnect calls and reports the raw result
// payload. Implementations decide whether a real Anki instance or a
// canned fixture set answers.
type Client interface {
	Invoke(ctx context.Context, action string, params interface{}) (json.RawMessage, error)
}

// ConnectClient talks to a live AnkiConnect add-on over HTTP.
type ConnectClient struct {
	url           string
	version       int
	httpClient    *http.Client
	log           *logger.Logger
	sleep         func(time.Duration)
	responseLimit int64
}

var _ Client = (*ConnectClient)(nil)

// ConnectOption adjusts a ConnectClient beyond its defaults.
type ConnectOption func(*ConnectClient)

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ConnectOption {
	return func(c *ConnectClient) {
		c.httpClient = hc
	}
}

// WithSleep substitutes the function used for retry backoff and call
// pacing. Tests record the requested delays instead of waiting.
func WithSleep(fn func(time.Duration)) ConnectOption {
	return func(c *ConnectClient) {
		c.sleep = fn
	}
}

// WithResponseLimit overrides the response size ceiling.
func WithResponseLimit(n int64) ConnectOption {
	return func(c *ConnectClient) {
		c.responseLimit = n
	}
}

// NewConnectClient returns a client for the AnkiConnect endpoint at url
// speaking the given API version.
func NewConnectClient(url string, version int, log *logger.Logger, opts ...ConnectOption) *ConnectClient {
	c := &ConnectClient{
		url:           url,
		version:       version,
		httpClient:    &http.Client{Timeout: RequestTimeout},
		log:           log,
		sleep:         time.Sleep,
		responseLimit: MaxResponseBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invoke performs one AnkiConnect call. Connection resets are retried
// with doubling backoff up to MaxRetries times; every other failure is
// returned immediately. After a successful call the client pauses
// briefly so bursts of calls stay paced.
func (c *ConnectClient) Invoke(ctx context.Context, action string, params interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(Request{
		Action:  action,
		Version: c.version,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", action, err)
	}

	var lastErr *TransportError
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			delay := RetryDelay << (attempt - 1)
			c.log.Debug("Connection reset during %s, retrying in %v (attempt %d/%d)",
				action, delay, attempt, MaxRetries)
			c.sleep(delay)
		}

		result, callErr := c.post(ctx, action, body)
		if callErr == nil {
			c.sleep(PostCallDelay)
			return result, nil
		}
		if callErr.Kind != KindConnectionReset {
			return nil, callErr
		}
		lastErr = callErr
	}
	return nil, lastErr
}

func (c *ConnectClient) post(ctx context.Context, action string, body []byte) (json.RawMessage, *TransportError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, NewNetworkError(action, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.Trace("POST %s action=%s", c.url, action)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyNetworkError(action, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.responseLimit+1))
	if err != nil {
		return nil, classifyNetworkError(action, err)
	}
	if int64(len(raw)) > c.responseLimit {
		return nil, NewNetworkError(action,
			fmt.Sprintf("response exceeds %d byte limit", c.responseLimit), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NewNetworkError(action,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var envelope Response
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, NewNetworkError(action, "malformed response envelope", err)
	}
	if envelope.Error != nil {
		return nil, NewRemoteError(action, *envelope.Error)
	}
	return envelope.Result, nil
}
