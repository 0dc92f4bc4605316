// Package apiclient is the outbound-call channel to the portal REST API.
//
// The client holds no default credential. Authenticated calls receive a
// CredentialSource argument, so a token change is visible to the very next
// call without any shared mutable header.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/hotelportal/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// CredentialSource supplies the bearer token for a call. An empty token
// means the call goes out unauthenticated.
type CredentialSource interface {
	Token() string
}

// StaticToken is a fixed credential.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// Anonymous carries no credential.
var Anonymous CredentialSource = StaticToken("")

type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit throttles outbound calls. A non-positive rate disables it.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Do sends one request and decodes the envelope's data into out when out is
// not nil. It returns the envelope message. Every failure is a *domain.Error.
func (c *Client) Do(ctx context.Context, method, path string, creds CredentialSource, body, out any) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", &domain.Error{Kind: domain.KindNetwork, Message: "request was cancelled", Err: err}
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return "", &domain.Error{Kind: domain.KindNetwork, Message: "could not encode request", Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return "", &domain.Error{Kind: domain.KindNetwork, Message: "could not build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if creds != nil {
		if token := creds.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("api request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return "", &domain.Error{Kind: domain.KindNetwork, Message: "Unable to reach the booking service", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.Error{Kind: domain.KindNetwork, Status: resp.StatusCode, Message: "could not read response", Err: err}
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)
	c.log.Debug("api response", zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusError(resp.StatusCode, env)
	}
	if decodeErr != nil {
		return "", &domain.Error{Kind: domain.KindNetwork, Status: resp.StatusCode, Message: "invalid response from server", Err: decodeErr}
	}
	if !env.Success {
		return "", &domain.Error{Kind: domain.KindServer, Status: resp.StatusCode, Message: messageOr(env, "request failed")}
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", &domain.Error{Kind: domain.KindNetwork, Status: resp.StatusCode, Message: "invalid response from server", Err: err}
		}
	}
	return env.Message, nil
}

func statusError(status int, env envelope) *domain.Error {
	kind := domain.KindServer
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = domain.KindAuth
	case status == http.StatusNotFound:
		kind = domain.KindNotFound
	}
	return &domain.Error{Kind: kind, Status: status, Message: messageOr(env, http.StatusText(status))}
}

func messageOr(env envelope, fallback string) string {
	if env.Message != "" {
		return env.Message
	}
	if env.Error != "" {
		return env.Error
	}
	return fallback
}

// IsUnauthorized reports whether err is a rejected or missing credential.
func IsUnauthorized(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}
