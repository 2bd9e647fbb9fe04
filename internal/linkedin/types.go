package linkedin

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/oauth2"
)

// ClientConfig is the OAuth application registered with LinkedIn.
type ClientConfig struct {
	ClientID string
	// ClientSecret must never be logged
	ClientSecret string
	// RedirectURI must match the value registered with LinkedIn exactly
	RedirectURI string
}

// Document is an opaque JSON object returned by LinkedIn. Numbers are kept
// as json.Number so integer values round-trip unchanged.
type Document map[string]any

// String returns the string value stored at key, or "" when absent or not a string.
func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Int64 returns the integer value stored at key.
func (d Document) Int64(key string) (int64, bool) {
	switch v := d[key].(type) {
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}

// TokenResponse is the token endpoint response. Raw holds the body as
// received; the typed fields are the ones this package reads.
type TokenResponse struct {
	AccessToken string   `json:"-"`
	ExpiresIn   int64    `json:"-"`
	IDToken     string   `json:"-"`
	Raw         Document `json:"-"`
}

// MarshalJSON emits the verbatim provider document.
func (t *TokenResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Raw)
}

func newTokenResponse(doc Document) *TokenResponse {
	expiresIn, _ := doc.Int64("expires_in")
	return &TokenResponse{
		AccessToken: doc.String("access_token"),
		ExpiresIn:   expiresIn,
		IDToken:     doc.String("id_token"),
		Raw:         doc,
	}
}

// OAuth2Token converts the response to an x/oauth2 token expiring at expiry.
func (t *TokenResponse) OAuth2Token(expiry time.Time) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: t.Raw.String("refresh_token"),
		Expiry:       expiry,
	}
	return tok.WithExtra(map[string]any(t.Raw))
}

// UserInfo is the userinfo endpoint response, passed through unchanged.
type UserInfo Document

// Subject returns the "sub" claim, the member id used to build person URNs.
func (u UserInfo) Subject() string {
	s, _ := u["sub"].(string)
	return s
}

// PostResult describes a published UGC post. PostID and URL are nil when
// LinkedIn did not return an id.
type PostResult struct {
	PostID      *string  `json:"post_id"`
	URL         *string  `json:"url"`
	RawResponse Document `json:"raw_response"`
}

func decodeDocument(body []byte) (Document, error) {
	doc := Document{}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("body is not a JSON object")
	}
	return doc, nil
}
