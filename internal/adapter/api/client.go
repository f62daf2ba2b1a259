// Package api is the fetch gateway of the client core: one hardened request
// path that turns transport and HTTP failures into *domain.APIError values,
// plus typed clients for the mock backend endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

// DefaultTimeout bounds a single request when no http.Client is supplied.
const DefaultTimeout = 15 * time.Second

// TokenSource supplies the bearer token attached to every request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed bearer token. The empty token sends no header.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// Call describes one request.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Out    any
	Header http.Header
}

// Client issues requests against the backend. It never caches and never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource attaches bearer tokens from ts.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the client logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request performs one call and decodes a JSON success body into out.
func (c *Client) Request(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return c.Do(ctx, Call{Method: method, Path: path, Query: query, Body: body, Out: out})
}

// Do performs call.
//
// Non-2xx responses map to Validation (400), Unauthorized (401),
// Forbidden (403), NotFound (404) or Api with the status kept. Transport
// failures are Network errors. When ctx itself ends the request, ctx.Err()
// is returned unchanged. Empty or non-JSON success bodies leave Out untouched.
func (c *Client) Do(ctx context.Context, call Call) error {
	req, err := c.newRequest(ctx, call)
	if err != nil {
		return &domain.APIError{Kind: domain.KindUnknown, Message: err.Error(), Err: err}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Debug().Err(err).Str("method", call.Method).Str("path", call.Path).Msg("network request failed")
		return &domain.APIError{Kind: domain.KindNetwork, Message: "Network request failed", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &domain.APIError{Kind: domain.KindNetwork, Status: resp.StatusCode, Message: "Network request failed", Err: err}
	}

	c.logger.Debug().
		Str("method", call.Method).
		Str("path", call.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp, raw)
	}

	if call.Out == nil || len(bytes.TrimSpace(raw)) == 0 || !isJSON(resp.Header.Get("Content-Type")) {
		return nil
	}

	if err := json.Unmarshal(raw, call.Out); err != nil {
		return &domain.APIError{
			Kind:    domain.KindUnknown,
			Status:  resp.StatusCode,
			Message: "malformed response body",
			Err:     err,
		}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, call Call) (*http.Request, error) {
	u := c.baseURL + call.Path
	if len(call.Query) > 0 {
		u += "?" + call.Query.Encode()
	}

	var body io.Reader
	if call.Body != nil {
		b, err := json.Marshal(call.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, vs := range call.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field"`
}

func statusError(resp *http.Response, raw []byte) error {
	apiErr := &domain.APIError{
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("Request failed with status %d", resp.StatusCode),
	}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		switch {
		case body.Error != "":
			apiErr.Message = body.Error
		case body.Message != "":
			apiErr.Message = body.Message
		}
		apiErr.Field = body.Field
		var details map[string]any
		if json.Unmarshal(raw, &details) == nil {
			apiErr.Details = details
		}
	} else if text := http.StatusText(resp.StatusCode); text != "" {
		apiErr.Message = text
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		apiErr.Kind = domain.KindValidation
	case http.StatusUnauthorized:
		apiErr.Kind = domain.KindUnauthorized
	case http.StatusForbidden:
		apiErr.Kind = domain.KindForbidden
	case http.StatusNotFound:
		apiErr.Kind = domain.KindNotFound
		apiErr.Message = "Resource not found"
	default:
		apiErr.Kind = domain.KindAPI
	}

	return apiErr
}
