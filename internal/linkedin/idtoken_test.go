package linkedin

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signIDToken(t *testing.T, key *rsa.PrivateKey, claims map[string]any) string {
	t.Helper()
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.RS256, Key: key}, (&jose.SignerOptions{}).WithType("JWT"))
	require.NoError(t, err)

	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	obj, err := signer.Sign(payload)
	require.NoError(t, err)
	raw, err := obj.CompactSerialize()
	require.NoError(t, err)
	return raw
}

func TestVerifyIDToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	keySet := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}}
	c := NewClient(testConfig, WithKeySet(keySet), WithClock(FixedClock(fixedNow)))

	validClaims := func() map[string]any {
		return map[string]any{
			"iss":            OIDCIssuer,
			"aud":            testConfig.ClientID,
			"sub":            "782bbtaQ",
			"iat":            fixedNow.Add(-time.Minute).Unix(),
			"exp":            fixedNow.Add(time.Hour).Unix(),
			"name":           "Ada Lovelace",
			"given_name":     "Ada",
			"family_name":    "Lovelace",
			"email":          "ada@example.com",
			"email_verified": "true",
			"picture":        "https://media.licdn.com/ada.jpg",
			"locale":         map[string]any{"language": "en", "country": "GB"},
		}
	}

	tests := []struct {
		name    string
		key     *rsa.PrivateKey
		mutate  func(map[string]any)
		wantErr bool
	}{
		{name: "valid token", key: key},
		{name: "expired", key: key, mutate: func(c map[string]any) { c["exp"] = fixedNow.Add(-time.Minute).Unix() }, wantErr: true},
		{name: "wrong audience", key: key, mutate: func(c map[string]any) { c["aud"] = "someone-else" }, wantErr: true},
		{name: "wrong issuer", key: key, mutate: func(c map[string]any) { c["iss"] = "https://accounts.google.com" }, wantErr: true},
		{name: "unknown signing key", key: otherKey, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := validClaims()
			if tt.mutate != nil {
				tt.mutate(claims)
			}
			tok := &TokenResponse{IDToken: signIDToken(t, tt.key, claims)}

			got, err := c.VerifyIDToken(context.Background(), tok)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "782bbtaQ", got.Subject)
			assert.Equal(t, "ada@example.com", got.Email)
			assert.True(t, got.EmailVerified)
			assert.Equal(t, "Ada Lovelace", got.Name)
			assert.Equal(t, "Ada", got.GivenName)
			assert.Equal(t, "Lovelace", got.FamilyName)
			assert.Equal(t, "https://media.licdn.com/ada.jpg", got.Picture)
			assert.Equal(t, "en_GB", got.Locale)
			assert.Equal(t, "782bbtaQ", got.Raw.String("sub"))
		})
	}
}

func TestVerifyIDToken_Missing(t *testing.T) {
	c := NewClient(testConfig, WithKeySet(&oidc.StaticKeySet{}))

	_, err := c.VerifyIDToken(context.Background(), &TokenResponse{AccessToken: "abc"})
	assert.ErrorIs(t, err, ErrNoIDToken)

	_, err = c.VerifyIDToken(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoIDToken)
}

func TestLocale(t *testing.T) {
	assert.Equal(t, "en_US", locale(map[string]any{"language": "en", "country": "US"}))
	assert.Equal(t, "fr", locale(map[string]any{"language": "fr"}))
	assert.Equal(t, "de_DE", locale("de_DE"))
	assert.Equal(t, "", locale(nil))
}

func TestFlexibleBool(t *testing.T) {
	assert.True(t, flexibleBool(true))
	assert.True(t, flexibleBool("true"))
	assert.False(t, flexibleBool("nope"))
	assert.False(t, flexibleBool(nil))
}
