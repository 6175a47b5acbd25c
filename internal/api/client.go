// Package api is the typed HTTP client of the BazaarKu backend. Every
// endpoint goes through Client.Do, which attaches the bearer token, infers
// the content type, and maps responses onto the error taxonomy in errors.go.
package api

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

	"bazaarku/internal/config"
	"bazaarku/internal/domain"
	"bazaarku/internal/metrics"
	"bazaarku/internal/session"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	contentTypeJSON = "application/json"
	headerRequestID = "X-Request-ID"

	ReasonUnauthorized   = "http_401"
	ReasonPaymentExpired = "http_402"
	ReasonTokenExpired   = "token_expired"
)

// Client performs authenticated requests against the backend base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      domain.SessionStore
	expiry     domain.ExpiryTrigger
	limiter    *rateLimiter
	retry      RetryPolicy
	preflight  bool
	logger     zerolog.Logger
	now        func() time.Time
}

type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	// Store holds the session token. Without one every request is anonymous.
	Store  domain.SessionStore
	Expiry domain.ExpiryTrigger
	// RateLimit throttles requests per endpoint template; zero disables it.
	RateLimit config.APIRateLimitConfig
	// Retry applies to GET requests only.
	Retry RetryPolicy
	// PreflightExpiry runs the expiry flow locally when the stored JWT is
	// already past its exp claim.
	PreflightExpiry bool
	Logger          *zerolog.Logger
}

func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("component", "api-client").Logger()
	}

	retryPolicy := opts.Retry
	if retryPolicy.MaxAttempts < 1 {
		retryPolicy = NoRetry
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		store:      opts.Store,
		expiry:     opts.Expiry,
		limiter:    newRateLimiter(opts.RateLimit),
		retry:      retryPolicy,
		preflight:  opts.PreflightExpiry,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// NewFromConfig builds a client from the api section of the configuration.
func NewFromConfig(cfg config.APIConfig, store domain.SessionStore, expiry domain.ExpiryTrigger, logger *zerolog.Logger) (*Client, error) {
	return NewClient(Options{
		BaseURL:         cfg.BaseURL,
		Timeout:         cfg.Timeout,
		Store:           store,
		Expiry:          expiry,
		RateLimit:       cfg.RateLimit,
		Retry:           PolicyFromConfig(cfg.Retry),
		PreflightExpiry: cfg.PreflightExpiry,
		Logger:          logger,
	})
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request describes one backend call. Body is either nil, a *FormData for
// multipart uploads, or any JSON-encodable value.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   any
}

// Do sends req and decodes a successful JSON answer into out (which may be
// nil). An empty or non-JSON 2xx body leaves out untouched.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	payload, contentType, err := encodeBody(req.Body)
	if err != nil {
		return err
	}

	token, err := c.token(ctx)
	if err != nil {
		return err
	}
	if token != "" && c.preflight && session.TokenExpired(token, c.now()) {
		c.logger.Info().Str("path", req.Path).Msg("stored token already expired")
		c.triggerExpiry(ctx, ReasonTokenExpired)
		return &SessionExpiredError{Reason: ReasonTokenExpired}
	}

	if err := c.limiter.Wait(ctx, req.Path); err != nil {
		return &NetworkError{Method: method, Path: req.Path, Err: err}
	}

	endpoint := c.baseURL + req.Path
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	policy := NoRetry
	if method == http.MethodGet {
		policy = retryPolicyFrom(ctx, c.retry)
	}

	_, err = Retry(ctx, policy, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.send(ctx, sendParams{
			method:      method,
			endpoint:    endpoint,
			path:        req.Path,
			payload:     payload,
			contentType: contentType,
			token:       token,
			header:      req.Header,
		}, out)
	})
	return err
}

type sendParams struct {
	method      string
	endpoint    string
	path        string
	payload     []byte
	contentType string
	token       string
	header      http.Header
}

func (c *Client) send(ctx context.Context, p sendParams, out any) error {
	var body io.Reader
	if p.payload != nil {
		body = bytes.NewReader(p.payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, p.method, p.endpoint, body)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", p.method, p.path, err)
	}

	for k, vals := range p.header {
		for _, v := range vals {
			httpReq.Header.Add(k, v)
		}
	}
	requestID := uuid.NewString()
	httpReq.Header.Set(headerRequestID, requestID)
	httpReq.Header.Set("Accept", contentTypeJSON)
	httpReq.Header.Set("Content-Type", p.contentType)
	if p.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.ObserveRequest(p.path, p.method, 0, time.Since(start))
		c.logger.Warn().Err(err).
			Str("request_id", requestID).
			Str("method", p.method).
			Str("path", p.path).
			Msg("backend unreachable")
		return &NetworkError{Method: p.method, Path: p.path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	duration := time.Since(start)
	if err != nil {
		metrics.ObserveRequest(p.path, p.method, 0, duration)
		return &NetworkError{Method: p.method, Path: p.path, Err: fmt.Errorf("read body: %w", err)}
	}
	metrics.ObserveRequest(p.path, p.method, resp.StatusCode, duration)

	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", p.method).
		Str("path", p.path).
		Int("status", resp.StatusCode).
		Dur("duration", duration).
		Msg("backend request")

	return c.handleResponse(ctx, p, resp.StatusCode, resp.Header.Get("Content-Type"), data, out)
}

func (c *Client) handleResponse(ctx context.Context, p sendParams, status int, contentType string, data []byte, out any) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusPaymentRequired:
		reason := ReasonUnauthorized
		if status == http.StatusPaymentRequired {
			reason = ReasonPaymentExpired
		}
		c.triggerExpiry(ctx, reason)
		return &SessionExpiredError{StatusCode: status, Reason: reason}

	case isHTML(contentType):
		msg := htmlMessage(data)
		c.logger.Error().
			Str("method", p.method).
			Str("path", p.path).
			Int("status", status).
			Str("content_type", contentType).
			Str("html_message", msg).
			Msg("html answer where json was expected")
		return &UnexpectedResponseFormatError{StatusCode: status, ContentType: contentType, Message: msg}

	case status < 200 || status >= 300:
		return &HTTPError{StatusCode: status, Message: errorMessage(data)}
	}

	if out == nil {
		return nil
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		c.logger.Error().Err(err).Str("path", p.path).Msg("decode response")
		return &UnexpectedResponseFormatError{StatusCode: status, ContentType: contentType, Err: err}
	}
	return nil
}

func (c *Client) triggerExpiry(ctx context.Context, reason string) {
	if c.expiry == nil {
		return
	}
	c.expiry.Expire(ctx, reason)
}

func (c *Client) token(ctx context.Context) (string, error) {
	if c.store == nil {
		return "", nil
	}
	token, err := session.Token(ctx, c.store)
	if err != nil {
		return "", fmt.Errorf("read session token: %w", err)
	}
	return token, nil
}

// encodeBody renders the request body and picks its content type.
// Multipart bodies carry the writer's boundary type, never a JSON one.
func encodeBody(body any) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, contentTypeJSON, nil
	case *FormData:
		if b == nil {
			return nil, contentTypeJSON, nil
		}
		data, ct, err := b.encode()
		if err != nil {
			return nil, "", fmt.Errorf("encode multipart body: %w", err)
		}
		return data, ct, nil
	case json.RawMessage:
		return b, contentTypeJSON, nil
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("encode json body: %w", err)
		}
		return data, contentTypeJSON, nil
	}
}

// errorMessage extracts the backend's human-readable message from an error
// body: a string "error" field, else a string "message" field, else a
// nested {"error": {"message": ...}}.
func errorMessage(data []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return ""
	}
	for _, key := range []string{"error", "message"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
		var nested struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
	}
	return ""
}
