package requester

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// NewGetRequest creates a GET request
func NewGetRequest(rawURL string, auth AuthManager) *Request {
	return &Request{
		Method: http.MethodGet,
		URL:    rawURL,
		Auth:   auth,
	}
}

// NewFormRequest creates a POST request with a form encoded body
func NewFormRequest(rawURL string, form url.Values, auth AuthManager) *Request {
	return &Request{
		Method:      http.MethodPost,
		URL:         rawURL,
		Body:        []byte(form.Encode()),
		ContentType: ContentTypeForm,
		Auth:        auth,
	}
}

// NewJSONRequest creates a POST request with body marshaled as JSON
func NewJSONRequest(rawURL string, body any, auth AuthManager) (*Request, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return &Request{
		Method:      http.MethodPost,
		URL:         rawURL,
		Body:        data,
		ContentType: ContentTypeJSON,
		Auth:        auth,
	}, nil
}

// WithHeader sets an extra header and returns the request
func (r *Request) WithHeader(key, value string) *Request {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[key] = value
	return r
}

// BuildHTTPRequest converts the request into an *http.Request bound to ctx
func (r *Request) BuildHTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Accept", ContentTypeJSON)
	for key, value := range r.Headers {
		httpReq.Header.Set(key, value)
	}
	if r.ContentType != "" {
		httpReq.Header.Set("Content-Type", r.ContentType)
	}

	if r.Auth != nil {
		if err := r.Auth.ApplyAuth(httpReq); err != nil {
			return nil, fmt.Errorf("failed to apply authentication: %w", err)
		}
	}

	return httpReq, nil
}
