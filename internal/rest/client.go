// Package rest is the thin typed client for the NeuroCampus backend. Each
// wrapper performs exactly one round trip: no retries, no backoff. All
// resilience (optimistic rollback, user-triggered retry) lives in the
// console layer above.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/NeuroCampus/neuro-console/pkg/auth"
	appErrors "github.com/NeuroCampus/neuro-console/pkg/errors"
	"github.com/NeuroCampus/neuro-console/pkg/logger"
	"github.com/NeuroCampus/neuro-console/pkg/metrics"
)

// envelope mirrors the backend response contract.
type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data,omitempty"`
	Message    string          `json:"message,omitempty"`
	Count      int             `json:"count,omitempty"`
	TotalPages int             `json:"total_pages,omitempty"`
}

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Tokens    auth.TokenSource
	Logger    *zap.Logger
	Metrics   *metrics.Set
	Transport http.RoundTripper
	UserAgent string
}

// Client issues one-shot requests against the backend and normalises the
// response envelope.
type Client struct {
	baseURL   string
	http      *http.Client
	tokens    auth.TokenSource
	logger    *zap.Logger
	metrics   *metrics.Set
	userAgent string
}

// New builds a client with sane defaults.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Tokens == nil {
		opts.Tokens = auth.Static("")
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: logger.RoundTripper(transport, opts.Logger),
		},
		tokens:    opts.Tokens,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		userAgent: opts.UserAgent,
	}
}

func (c *Client) get(ctx context.Context, resource, path string, query url.Values, out interface{}) (*envelope, error) {
	return c.do(ctx, resource, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, resource, path string, body interface{}, out interface{}) (*envelope, error) {
	return c.do(ctx, resource, http.MethodPost, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, resource, method, path string, query url.Values, body, out interface{}) (*envelope, error) {
	start := time.Now()
	env, err := c.roundTrip(ctx, method, path, query, body, out)
	outcome := "success"
	if err != nil {
		outcome = appErrors.FromError(err).Code
	}
	c.metrics.RecordRequest(resource, outcome, time.Since(start))
	return env, err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body, out interface{}) (*envelope, error) {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrAuth.Code, appErrors.ErrAuth.Status, "failed to obtain access token")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, "request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, "failed to read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.classifyStatus(resp.StatusCode, raw)
	}

	env := &envelope{}
	if err := json.Unmarshal(raw, env); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMalformedResponse.Code, appErrors.ErrMalformedResponse.Status, appErrors.ErrMalformedResponse.Message)
	}
	if !env.Success {
		message := env.Message
		if message == "" {
			message = appErrors.ErrServerRejected.Message
		}
		return env, appErrors.Clone(appErrors.ErrServerRejected, message)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return env, appErrors.Wrap(err, appErrors.ErrMalformedResponse.Code, appErrors.ErrMalformedResponse.Status, "unexpected payload shape")
		}
	}
	return env, nil
}

func (c *Client) classifyStatus(status int, raw []byte) error {
	switch {
	case status == http.StatusNotFound:
		return appErrors.Clone(appErrors.ErrNotFound, "resource or branch not found")
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return appErrors.Clone(appErrors.ErrAuth, "authentication failure")
	case status == http.StatusBadRequest:
		env := envelope{}
		if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
			return appErrors.Clone(appErrors.ErrValidation, env.Message)
		}
		return appErrors.Clone(appErrors.ErrValidation, "request rejected by server")
	default:
		return appErrors.Clone(appErrors.ErrNetwork, fmt.Sprintf("unexpected server status %d", status))
	}
}
