package linkedin

import (
	oauth2linkedin "golang.org/x/oauth2/linkedin"
)

const (
	UserInfoURL     = "https://api.linkedin.com/v2/userinfo"
	PostURL         = "https://api.linkedin.com/v2/ugcPosts"
	FeedURLPrefix   = "https://www.linkedin.com/feed/update/"
	OIDCIssuer      = "https://www.linkedin.com/oauth"
	OIDCJWKSURL     = "https://www.linkedin.com/oauth/openid/jwks"
	PersonURNPrefix = "urn:li:person:"

	// RestliProtocolVersion is required by the UGC posts API
	RestliProtocolVersion = "2.0.0"
)

// Scopes requested on every authorization, in this order.
var Scopes = []string{
	"openid",
	"profile",
	"email",
	"w_member_social",
}

// Endpoints groups the remote URLs the client talks to.
type Endpoints struct {
	AuthURL     string
	TokenURL    string
	UserInfoURL string
	PostURL     string
}

// DefaultEndpoints returns the production LinkedIn endpoints.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		AuthURL:     oauth2linkedin.Endpoint.AuthURL,
		TokenURL:    oauth2linkedin.Endpoint.TokenURL,
		UserInfoURL: UserInfoURL,
		PostURL:     PostURL,
	}
}
