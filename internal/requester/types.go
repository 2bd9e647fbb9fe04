package requester

import (
	"net/http"
)

// Request represents a request ready to be executed
type Request struct {
	Method      string
	URL         string
	Body        []byte
	ContentType string
	Headers     map[string]string
	Auth        AuthManager
}

// Response represents a fully read HTTP response
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// StatusIn reports whether the response status is one of codes.
func (r *Response) StatusIn(codes ...int) bool {
	for _, code := range codes {
		if r.StatusCode == code {
			return true
		}
	}
	return false
}
