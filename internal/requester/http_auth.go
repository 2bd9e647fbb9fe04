package requester

import (
	"errors"
	"net/http"

	"golang.org/x/oauth2"
)

// ErrEmptyToken is returned when a bearer token is required but empty
var ErrEmptyToken = errors.New("access token is empty")

// AuthManager handles request authentication
type AuthManager interface {
	ApplyAuth(req *http.Request) error
}

// NoAuth leaves the request untouched
type NoAuth struct{}

func (NoAuth) ApplyAuth(*http.Request) error { return nil }

// BearerAuth sets an OAuth 2.0 bearer token on the request
type BearerAuth struct {
	token *oauth2.Token
}

// NewBearerAuth creates a BearerAuth for the given access token
func NewBearerAuth(accessToken string) *BearerAuth {
	return &BearerAuth{
		token: &oauth2.Token{
			AccessToken: accessToken,
			TokenType:   "Bearer",
		},
	}
}

// ApplyAuth adds the Authorization header to the request
func (a *BearerAuth) ApplyAuth(req *http.Request) error {
	if a.token.AccessToken == "" {
		return ErrEmptyToken
	}
	a.token.SetAuthHeader(req)
	return nil
}
