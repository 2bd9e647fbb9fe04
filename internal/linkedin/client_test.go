package linkedin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/brizzai/auto-linkedin/internal/requester"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var testConfig = ClientConfig{
	ClientID:     "client-123",
	ClientSecret: "s3cret",
	RedirectURI:  "http://localhost:8000/api/auth/linkedin/callback",
}

// newTestClient starts a fake LinkedIn and returns a client pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]Option{
		WithEndpoints(Endpoints{
			AuthURL:     server.URL + "/oauth/v2/authorization",
			TokenURL:    server.URL + "/oauth/v2/accessToken",
			UserInfoURL: server.URL + "/v2/userinfo",
			PostURL:     server.URL + "/v2/ugcPosts",
		}),
		WithRequester(requester.NewHTTPRequester(5 * time.Second)),
	}, opts...)
	return NewClient(testConfig, opts...)
}

func TestDefaultEndpoints(t *testing.T) {
	e := DefaultEndpoints()
	assert.Equal(t, "https://www.linkedin.com/oauth/v2/authorization", e.AuthURL)
	assert.Equal(t, "https://www.linkedin.com/oauth/v2/accessToken", e.TokenURL)
	assert.Equal(t, "https://api.linkedin.com/v2/userinfo", e.UserInfoURL)
	assert.Equal(t, "https://api.linkedin.com/v2/ugcPosts", e.PostURL)
}

func TestNewClient_DefaultRedirectURI(t *testing.T) {
	c := NewClient(ClientConfig{ClientID: "id", ClientSecret: "secret"})
	assert.Equal(t, DefaultRedirectURI, c.Config().RedirectURI)
}

func TestAuthorizationURL(t *testing.T) {
	c := NewClient(testConfig)

	tests := []struct {
		name  string
		state string
	}{
		{name: "simple state", state: "abc123"},
		{name: "state needing escaping", state: "a b&c=d/é"},
		{name: "empty state", state: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authURL, state := c.AuthorizationURL(tt.state)
			assert.Equal(t, tt.state, state)

			u, err := url.Parse(authURL)
			require.NoError(t, err)
			assert.Equal(t, "https", u.Scheme)
			assert.Equal(t, "www.linkedin.com", u.Host)
			assert.Equal(t, "/oauth/v2/authorization", u.Path)

			var keys []string
			for _, pair := range strings.Split(u.RawQuery, "&") {
				keys = append(keys, strings.SplitN(pair, "=", 2)[0])
			}
			assert.Equal(t, []string{"response_type", "client_id", "redirect_uri", "scope", "state"}, keys)

			q := u.Query()
			assert.Equal(t, "code", q.Get("response_type"))
			assert.Equal(t, testConfig.ClientID, q.Get("client_id"))
			assert.Equal(t, testConfig.RedirectURI, q.Get("redirect_uri"))
			assert.Equal(t, "openid profile email w_member_social", q.Get("scope"))
			assert.Equal(t, tt.state, q.Get("state"))
		})
	}
}

func TestExchangeCode(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		checkResponse func(t *testing.T, tok *TokenResponse, err error)
	}{
		{
			name:   "success returns body unchanged",
			status: http.StatusOK,
			body:   `{"access_token":"abc","expires_in":3600}`,
			checkResponse: func(t *testing.T, tok *TokenResponse, err error) {
				require.NoError(t, err)
				want := Document{"access_token": "abc", "expires_in": json.Number("3600")}
				if diff := cmp.Diff(want, tok.Raw); diff != "" {
					t.Errorf("token document mismatch (-want +got):\n%s", diff)
				}
				assert.Equal(t, "abc", tok.AccessToken)
				assert.Equal(t, int64(3600), tok.ExpiresIn)
			},
		},
		{
			name:   "extra fields pass through",
			status: http.StatusOK,
			body:   `{"access_token":"abc","expires_in":5184000,"scope":"openid,profile","id_token":"x.y.z","refresh_token_expires_in":31536000}`,
			checkResponse: func(t *testing.T, tok *TokenResponse, err error) {
				require.NoError(t, err)
				assert.Equal(t, "openid,profile", tok.Raw.String("scope"))
				assert.Equal(t, "x.y.z", tok.IDToken)
				n, ok := tok.Raw.Int64("refresh_token_expires_in")
				assert.True(t, ok)
				assert.Equal(t, int64(31536000), n)
			},
		},
		{
			name:   "400 carries raw body",
			status: http.StatusBadRequest,
			body:   `{"error":"invalid_request","error_description":"Unable to retrieve access token"}`,
			checkResponse: func(t *testing.T, tok *TokenResponse, err error) {
				assert.Nil(t, tok)
				apiErr, ok := AsAPIError(err)
				require.True(t, ok)
				assert.Equal(t, OpExchangeCode, apiErr.Operation)
				assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
				assert.Equal(t, `{"error":"invalid_request","error_description":"Unable to retrieve access token"}`, apiErr.Body)
			},
		},
		{
			name:   "201 is not accepted",
			status: http.StatusCreated,
			body:   `{"access_token":"abc","expires_in":3600}`,
			checkResponse: func(t *testing.T, tok *TokenResponse, err error) {
				apiErr, ok := AsAPIError(err)
				require.True(t, ok)
				assert.Equal(t, http.StatusCreated, apiErr.StatusCode)
			},
		},
		{
			name:   "non JSON success body",
			status: http.StatusOK,
			body:   `<html>oops</html>`,
			checkResponse: func(t *testing.T, tok *TokenResponse, err error) {
				assert.ErrorIs(t, err, ErrMalformedResponse)
				_, isAPI := AsAPIError(err)
				assert.False(t, isAPI)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/oauth/v2/accessToken", r.URL.Path)
				assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
				assert.Empty(t, r.Header.Get("Authorization"))

				require.NoError(t, r.ParseForm())
				assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
				assert.Equal(t, "the-code", r.PostForm.Get("code"))
				assert.Equal(t, testConfig.ClientID, r.PostForm.Get("client_id"))
				assert.Equal(t, testConfig.ClientSecret, r.PostForm.Get("client_secret"))
				assert.Equal(t, testConfig.RedirectURI, r.PostForm.Get("redirect_uri"))
				assert.Len(t, r.PostForm, 5)

				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			tok, err := c.ExchangeCode(context.Background(), "the-code")
			tt.checkResponse(t, tok, err)
		})
	}
}

func TestExchangeCode_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	tokenURL := server.URL + "/token"
	server.Close()

	c := NewClient(testConfig, WithEndpoints(Endpoints{TokenURL: tokenURL}))
	_, err := c.ExchangeCode(context.Background(), "code")

	tErr, ok := AsTransportError(err)
	require.True(t, ok)
	assert.Equal(t, OpExchangeCode, tErr.Operation)
	_, isAPI := AsAPIError(err)
	assert.False(t, isAPI)
}

func TestExchangeCode_InvalidEndpoint(t *testing.T) {
	c := NewClient(testConfig, WithEndpoints(Endpoints{TokenURL: "://missing-scheme"}))
	_, err := c.ExchangeCode(context.Background(), "code")

	require.Error(t, err)
	assert.ErrorIs(t, err, requester.ErrInvalidRequest)
	_, isTransport := AsTransportError(err)
	assert.False(t, isTransport)
	_, isAPI := AsAPIError(err)
	assert.False(t, isAPI)
}

func TestExchangeCode_ContextDeadline(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = io.WriteString(w, `{}`)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.ExchangeCode(ctx, "code")
	_, ok := AsTransportError(err)
	assert.True(t, ok)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestGetUserInfo(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		checkResponse func(t *testing.T, info UserInfo, err error)
	}{
		{
			name:   "success returns body unchanged",
			status: http.StatusOK,
			body:   `{"sub":"123","email":"a@b.com"}`,
			checkResponse: func(t *testing.T, info UserInfo, err error) {
				require.NoError(t, err)
				assert.Equal(t, UserInfo{"sub": "123", "email": "a@b.com"}, info)
				assert.Equal(t, "123", info.Subject())
			},
		},
		{
			name:   "401 fails",
			status: http.StatusUnauthorized,
			body:   `{"serviceErrorCode":65600,"message":"Invalid access token","status":401}`,
			checkResponse: func(t *testing.T, info UserInfo, err error) {
				assert.Nil(t, info)
				apiErr, ok := AsAPIError(err)
				require.True(t, ok)
				assert.True(t, apiErr.Unauthorized())
				assert.Equal(t, OpGetUserInfo, apiErr.Operation)
				assert.Contains(t, apiErr.Body, "Invalid access token")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/v2/userinfo", r.URL.Path)
				assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			info, err := c.GetUserInfo(context.Background(), "tok-1")
			tt.checkResponse(t, info, err)
		})
	}
}

func TestGetUserInfo_EmptyToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := c.GetUserInfo(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyAccessToken)
	_, isAPI := AsAPIError(err)
	assert.False(t, isAPI)
}

func TestClient_ConcurrentCalls(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, `{"sub":%q}`, strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	})

	var g errgroup.Group
	for i := 0; i < 20; i++ {
		token := fmt.Sprintf("tok-%d", i)
		g.Go(func() error {
			info, err := c.GetUserInfo(context.Background(), token)
			if err != nil {
				return err
			}
			if info.Subject() != token {
				return fmt.Errorf("got subject %q for %q", info.Subject(), token)
			}
			return nil
		})
	}
	assert.NoError(t, g.Wait())
}
