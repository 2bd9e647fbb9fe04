// Package linkedin implements the LinkedIn OAuth 2.0 authorization code flow
// and the few member APIs used after login: userinfo and UGC posts.
//
// A Client is immutable after construction and safe for concurrent use. Every
// network call is a single round trip with no retries; failures are reported
// as *APIError (LinkedIn answered with an unexpected status) or
// *TransportError (no answer at all).
package linkedin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brizzai/auto-linkedin/internal/logger"
	"github.com/brizzai/auto-linkedin/internal/requester"
	"github.com/coreos/go-oidc/v3/oidc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/brizzai/auto-linkedin/internal/linkedin"

// ErrEmptyAccessToken is returned before any request is sent when the access token is empty.
var ErrEmptyAccessToken = requester.ErrEmptyToken

// Client talks to LinkedIn on behalf of one OAuth application.
type Client struct {
	config    ClientConfig
	endpoints Endpoints
	requester requester.Doer
	clock     Clock
	keySet    oidc.KeySet
}

// Option configures a Client.
type Option func(*Client)

// WithClock replaces the wall clock used by the expiry helpers.
func WithClock(clock Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// WithRequester replaces the HTTP requester.
func WithRequester(r requester.Doer) Option {
	return func(c *Client) { c.requester = r }
}

// WithEndpoints points the client at different URLs, for tests and sandboxes.
func WithEndpoints(e Endpoints) Option {
	return func(c *Client) { c.endpoints = e }
}

// WithKeySet replaces the key set used to verify id_tokens.
func WithKeySet(ks oidc.KeySet) Option {
	return func(c *Client) { c.keySet = ks }
}

// NewClient creates a Client. An empty RedirectURI falls back to the
// local development callback.
func NewClient(cfg ClientConfig, opts ...Option) *Client {
	if cfg.RedirectURI == "" {
		cfg.RedirectURI = DefaultRedirectURI
	}
	c := &Client{
		config:    cfg,
		endpoints: DefaultEndpoints(),
		clock:     SystemClock,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.requester == nil {
		c.requester = requester.NewHTTPRequester(requester.DefaultTimeout)
	}
	if c.keySet == nil {
		c.keySet = oidc.NewRemoteKeySet(context.Background(), OIDCJWKSURL)
	}
	return c
}

// DefaultRedirectURI is the callback used when none is configured.
const DefaultRedirectURI = "http://localhost:8000/api/auth/linkedin/callback"

// Config returns a copy of the client configuration.
func (c *Client) Config() ClientConfig {
	return c.config
}

// AuthorizationURL builds the consent-screen URL for state and echoes state
// back so the caller can persist it before redirecting. Parameters keep a
// fixed order and each value is query-escaped.
func (c *Client) AuthorizationURL(state string) (string, string) {
	params := [][2]string{
		{"response_type", "code"},
		{"client_id", c.config.ClientID},
		{"redirect_uri", c.config.RedirectURI},
		{"scope", strings.Join(Scopes, " ")},
		{"state", state},
	}

	var b strings.Builder
	b.WriteString(c.endpoints.AuthURL)
	b.WriteByte('?')
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p[0])
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[1]))
	}
	return b.String(), state
}

// ExchangeCode trades an authorization code for an access token. Only HTTP
// 200 is accepted.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", c.config.ClientID)
	form.Set("client_secret", c.config.ClientSecret)
	form.Set("redirect_uri", c.config.RedirectURI)

	resp, err := c.call(ctx, OpExchangeCode, requester.NewFormRequest(c.endpoints.TokenURL, form, requester.NoAuth{}), http.StatusOK)
	if err != nil {
		return nil, err
	}

	doc, err := decodeDocument(resp.Body)
	if err != nil {
		return nil, malformed(OpExchangeCode, err)
	}
	return newTokenResponse(doc), nil
}

// GetUserInfo returns the OpenID Connect profile of the token's member.
// Only HTTP 200 is accepted.
func (c *Client) GetUserInfo(ctx context.Context, accessToken string) (UserInfo, error) {
	// No request is sent for an empty token, so callers get ErrEmptyAccessToken
	// rather than LinkedIn's 401 as an *APIError.
	if accessToken == "" {
		return nil, fmt.Errorf("linkedin %s: %w", OpGetUserInfo, ErrEmptyAccessToken)
	}

	resp, err := c.call(ctx, OpGetUserInfo, requester.NewGetRequest(c.endpoints.UserInfoURL, requester.NewBearerAuth(accessToken)), http.StatusOK)
	if err != nil {
		return nil, err
	}

	doc, err := decodeDocument(resp.Body)
	if err != nil {
		return nil, malformed(OpGetUserInfo, err)
	}
	return UserInfo(doc), nil
}

// call executes req inside a span and maps failures onto the error taxonomy.
func (c *Client) call(ctx context.Context, op string, req *requester.Request, accepted ...int) (*requester.Response, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "linkedin."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	start := time.Now()
	resp, err := c.requester.Do(ctx, req)
	if errors.Is(err, requester.ErrInvalidRequest) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		return nil, fmt.Errorf("linkedin %s: %w", op, err)
	}
	if err != nil {
		tErr := &TransportError{Operation: op, Err: err}
		span.RecordError(tErr)
		span.SetStatus(codes.Error, "transport failure")
		logger.Error("LinkedIn request failed",
			zap.String("operation", op),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, tErr
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if !resp.StatusIn(accepted...) {
		apiErr := &APIError{Operation: op, StatusCode: resp.StatusCode, Body: string(resp.Body)}
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		logger.Warn("LinkedIn rejected request",
			zap.String("operation", op),
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, apiErr
	}

	logger.Info("LinkedIn request succeeded",
		zap.String("operation", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return resp, nil
}
