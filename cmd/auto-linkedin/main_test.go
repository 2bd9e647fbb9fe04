package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/brizzai/auto-linkedin/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("LINKEDIN_CLIENT_ID", "client-123")
	t.Setenv("LINKEDIN_CLIENT_SECRET", "s3cret")
	t.Setenv("AUTO_LINKEDIN_TELEMETRY_ENABLED", "false")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAuthURLCommand(t *testing.T) {
	out, err := execute(t, "auth-url", "--state", "abc", "-o", "json")
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "abc", got["state"])
	assert.True(t, strings.HasPrefix(got["url"], "https://www.linkedin.com/oauth/v2/authorization?response_type=code&client_id=client-123&"))
	assert.Contains(t, got["url"], "redirect_uri=http%3A%2F%2Flocalhost%3A8000%2Fapi%2Fauth%2Flinkedin%2Fcallback")
}

func TestAuthURLCommand_YAML(t *testing.T) {
	out, err := execute(t, "auth-url", "--state", "abc", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "state: abc")
}

func TestAuthURLCommand_RequiresState(t *testing.T) {
	_, err := execute(t, "auth-url")
	assert.Error(t, err)
}

func TestTokenCommands(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantExpired bool
		wantAt      string
	}{
		{name: "expiry in an hour", args: []string{"token", "expiry", "--expires-in", "3600"}},
		{name: "expiry inside buffer", args: []string{"token", "expiry", "--expires-in", "60"}, wantExpired: true},
		{name: "status in the past", args: []string{"token", "status", "--expires-at", "2000-01-01T00:00:00"}, wantExpired: true, wantAt: "2000-01-01T00:00:00Z"},
		{name: "status far future", args: []string{"token", "status", "--expires-at", "2999-01-01T09:00:00+09:00"}, wantAt: "2999-01-01T00:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append(tt.args, "-o", "json")...)
			require.NoError(t, err)

			var got struct {
				ExpiresAt string `json:"expires_at"`
				Expired   bool   `json:"expired"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			assert.Equal(t, tt.wantExpired, got.Expired)
			if tt.wantAt != "" {
				assert.Equal(t, tt.wantAt, got.ExpiresAt)
			}
			_, err = time.Parse(time.RFC3339, got.ExpiresAt)
			assert.NoError(t, err)
		})
	}
}

func TestTokenStatus_InvalidTimestamp(t *testing.T) {
	_, err := execute(t, "token", "status", "--expires-at", "next tuesday")
	assert.Error(t, err)
}

func TestInvalidOutputFormat(t *testing.T) {
	_, err := execute(t, "token", "expiry", "--expires-in", "10", "-o", "xml")
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestExchangeCommand_MissingCredentials(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LINKEDIN_CLIENT_ID", "")
	t.Setenv("LINKEDIN_CLIENT_SECRET", "")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"exchange", "--code", "abc"})
	err := cmd.Execute()
	assert.ErrorIs(t, err, config.ErrMissingCredentials)
}

func TestPostContentSource(t *testing.T) {
	got, err := postContent(strings.NewReader("from stdin\n"), "-", false)
	require.NoError(t, err)
	assert.Equal(t, "from stdin", got)

	got, err = postContent(nil, "inline", false)
	require.NoError(t, err)
	assert.Equal(t, "inline", got)

	_, err = postContent(nil, "  ", false)
	assert.Error(t, err)
}

func TestServeApp_Wiring(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: config.ServerModeSTDIO, Name: "Auto LinkedIn", Version: "test"},
		LinkedIn: config.LinkedInConfig{
			ClientID:     "client-123",
			ClientSecret: "s3cret",
			Timeout:      time.Second,
		},
	}
	require.NoError(t, fx.ValidateApp(appOptions(cfg)), "fx graph")
}
