package requester

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/brizzai/auto-linkedin/internal/config"
	"github.com/brizzai/auto-linkedin/internal/logger"
	"go.uber.org/zap"
)

// DefaultTimeout is used when the configuration does not set one
const DefaultTimeout = 30 * time.Second

// ErrInvalidRequest is returned when the request cannot be built, so nothing was sent
var ErrInvalidRequest = errors.New("invalid request")

// Doer executes requests. HTTPRequester is the production implementation.
type Doer interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// HTTPRequester executes requests with a shared http.Client
type HTTPRequester struct {
	client *http.Client
}

// NewHTTPRequester creates a new HTTPRequester with the given timeout
func NewHTTPRequester(timeout time.Duration) *HTTPRequester {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPRequester{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewHTTPRequesterFromConfig creates a requester from the LinkedIn configuration
func NewHTTPRequesterFromConfig(cfg *config.Config) *HTTPRequester {
	return NewHTTPRequester(cfg.LinkedIn.Timeout)
}

// NewHTTPRequesterWithClient wraps an existing http.Client
func NewHTTPRequesterWithClient(client *http.Client) *HTTPRequester {
	return &HTTPRequester{client: client}
}

// SetTimeout sets the timeout for the HTTP client
func (r *HTTPRequester) SetTimeout(timeout time.Duration) {
	r.client.Timeout = timeout
}

// Do builds and executes the request. The response body is always read
// and closed. A non-nil error means no response was received; errors that
// wrap ErrInvalidRequest mean no request was sent either.
func (r *HTTPRequester) Do(ctx context.Context, req *Request) (resp *Response, err error) {
	httpReq, err := req.BuildHTTPRequest(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	start := time.Now()
	httpResp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := httpResp.Body.Close(); closeErr != nil {
			logger.Warn("Failed to close response body", zap.Error(closeErr))
		}
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	logger.Debug("request completed",
		zap.String("method", httpReq.Method),
		zap.String("host", httpReq.URL.Host),
		zap.String("path", httpReq.URL.Path),
		zap.Int("status", httpResp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       body,
		Headers:    httpResp.Header,
	}, nil
}
