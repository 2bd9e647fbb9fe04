package linkedin

import (
	"context"
	"fmt"
	"strconv"

	"github.com/coreos/go-oidc/v3/oidc"
)

// IDClaims are the OpenID Connect claims LinkedIn puts in the id_token.
type IDClaims struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	GivenName     string
	FamilyName    string
	Picture       string
	Locale        string
	Raw           Document
}

// VerifyIDToken checks the id_token returned alongside the access token:
// signature against LinkedIn's JWKS, issuer, audience (the client id) and
// expiry using the client's clock.
func (c *Client) VerifyIDToken(ctx context.Context, tok *TokenResponse) (*IDClaims, error) {
	if tok == nil || tok.IDToken == "" {
		return nil, ErrNoIDToken
	}

	verifier := oidc.NewVerifier(OIDCIssuer, c.keySet, &oidc.Config{
		ClientID: c.config.ClientID,
		Now:      c.clock.Now,
	})

	idToken, err := verifier.Verify(ctx, tok.IDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify id_token: %w", err)
	}

	var raw Document
	if err := idToken.Claims(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse id_token claims: %w", err)
	}

	return &IDClaims{
		Subject:       idToken.Subject,
		Email:         raw.String("email"),
		EmailVerified: flexibleBool(raw["email_verified"]),
		Name:          raw.String("name"),
		GivenName:     raw.String("given_name"),
		FamilyName:    raw.String("family_name"),
		Picture:       raw.String("picture"),
		Locale:        locale(raw["locale"]),
		Raw:           raw,
	}, nil
}

// locale flattens LinkedIn's {"language":"en","country":"US"} object to en_US.
func locale(v any) string {
	switch l := v.(type) {
	case string:
		return l
	case map[string]any:
		lang, _ := l["language"].(string)
		country, _ := l["country"].(string)
		if country == "" {
			return lang
		}
		return lang + "_" + country
	}
	return ""
}

// flexibleBool accepts both JSON booleans and "true"/"false" strings.
func flexibleBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, _ := strconv.ParseBool(b)
		return parsed
	}
	return false
}
