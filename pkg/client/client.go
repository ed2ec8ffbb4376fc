package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pennywise/pennywise/internal/config"
	"github.com/pennywise/pennywise/internal/rest"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")

	// ErrNotAuthenticated is returned by token sources when there is no usable session.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// APIError is a non-2xx response of the API.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Details != "" {
		return fmt.Sprintf("%s (%d): %s", msg, e.StatusCode, e.Details)
	}
	return fmt.Sprintf("%s (%d)", msg, e.StatusCode)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	case ErrValidation:
		return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
	}
	return false
}

func (e *APIError) temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Client is a typed wrapper of the REST API. Every call honours ctx cancellation.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	maxRetries    int
	retryInterval time.Duration
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithMaxRetries sets how many times an idempotent request is repeated after a transient failure.
func WithMaxRetries(maxRetries int) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
	}
}

func WithRetryInterval(interval time.Duration) Option {
	return func(c *Client) {
		c.retryInterval = interval
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		maxRetries:    3,
		retryInterval: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func NewFromConfig(cfg config.Api) *Client {
	return New(cfg.Url, WithTimeout(cfg.Timeout), WithMaxRetries(cfg.MaxRetries))
}

// Authenticated returns a copy of the client that sends the bearer token of ts with every request.
func (c *Client) Authenticated(ts oauth2.TokenSource) *Client {
	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	authenticated := *c
	authenticated.httpClient = &http.Client{
		Timeout:   c.httpClient.Timeout,
		Transport: &oauth2.Transport{Source: ts, Base: base},
	}
	return &authenticated
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	accept string
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query}, out)
}

func (c *Client) sendJSON(ctx context.Context, method string, path string, body any, out any) error {
	return c.do(ctx, request{method: method, path: path, body: body}, out)
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	raw, err := c.raw(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Errorf("Failed to decode response of %s %s: %v", req.method, req.path, err)
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// raw executes req and returns the response body of a 2xx response. GET, PUT and DELETE are retried
// with exponential backoff on network errors, 429 and 5xx responses.
func (c *Client) raw(ctx context.Context, req request) ([]byte, error) {
	var payload []byte
	if req.body != nil {
		var err error
		if payload, err = json.Marshal(req.body); err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
	}
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var result []byte
	operation := func() error {
		body, err := c.attempt(ctx, req, target, payload)
		if err != nil {
			if !retryable(ctx, req.method, err) {
				return backoff.Permanent(err)
			}
			return err
		}
		result = body
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval
	err := backoff.RetryNotify(operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, uint64(max(c.maxRetries, 0))), ctx),
		func(err error, wait time.Duration) {
			log.Warnf("%s %s failed, retrying in %s: %v", req.method, req.path, wait, err)
		})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) attempt(ctx context.Context, req request, target string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return nil, err
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	accept := req.accept
	if accept == "" {
		accept = "application/json"
	}
	httpReq.Header.Set("Accept", accept)

	log.Debugf("%s %s", req.method, target)
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errorResponse rest.ErrorResponse
		if json.Unmarshal(respBody, &errorResponse) == nil {
			apiErr.Message = errorResponse.Error
			apiErr.Details = errorResponse.Details
		}
		return nil, apiErr
	}
	return respBody, nil
}

func retryable(ctx context.Context, method string, err error) bool {
	if method != http.MethodGet && method != http.MethodPut && method != http.MethodDelete {
		return false
	}
	if ctx.Err() != nil || errors.Is(err, ErrNotAuthenticated) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.temporary()
	}
	return true
}
