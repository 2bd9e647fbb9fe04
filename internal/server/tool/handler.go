// Package tool defines the LinkedIn MCP tools and their handlers.
package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/brizzai/auto-linkedin/internal/auth/middleware"
	"github.com/brizzai/auto-linkedin/internal/linkedin"
	"github.com/brizzai/auto-linkedin/internal/logger"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Tool names
const (
	AuthorizationURLTool = "linkedin_authorization_url"
	ExchangeCodeTool     = "linkedin_exchange_code"
	GetUserInfoTool      = "linkedin_get_user_info"
	PublishPostTool      = "linkedin_publish_post"
	TokenStatusTool      = "linkedin_token_status"
)

// ErrNoAccessToken is reported when neither the arguments nor the request carry a token.
var ErrNoAccessToken = errors.New("access token required: pass access_token or send an Authorization: Bearer header")

// LinkedIn is the part of *linkedin.Client the tools call.
type LinkedIn interface {
	AuthorizationURL(state string) (string, string)
	ExchangeCode(ctx context.Context, code string) (*linkedin.TokenResponse, error)
	GetUserInfo(ctx context.Context, accessToken string) (linkedin.UserInfo, error)
	PostContent(ctx context.Context, content, accessToken, memberID string) (*linkedin.PostResult, error)
	ComputeTokenExpiry(expiresIn int64) time.Time
	IsTokenExpired(expiresAt time.Time) bool
}

// Handler builds tool handlers over a LinkedIn client.
type Handler struct {
	client LinkedIn
}

// NewHandler creates a new tool handler.
func NewHandler(client LinkedIn) *Handler {
	return &Handler{client: client}
}

// Register adds every LinkedIn tool to s.
func (h *Handler) Register(s *mcpserver.MCPServer) {
	s.AddTool(authorizationURLTool(), h.wrap(AuthorizationURLTool, h.authorizationURL))
	s.AddTool(exchangeCodeTool(), h.wrap(ExchangeCodeTool, h.exchangeCode))
	s.AddTool(getUserInfoTool(), h.wrap(GetUserInfoTool, h.getUserInfo))
	s.AddTool(publishPostTool(), h.wrap(PublishPostTool, h.publishPost))
	s.AddTool(tokenStatusTool(), h.wrap(TokenStatusTool, h.tokenStatus))
}

func authorizationURLTool() mcp.Tool {
	return mcp.NewTool(AuthorizationURLTool,
		mcp.WithDescription("Build the LinkedIn consent-screen URL. The caller generates and keeps the CSRF state."),
		mcp.WithString("state",
			mcp.Required(),
			mcp.Description("Opaque CSRF state echoed back on the callback"),
		),
	)
}

func exchangeCodeTool() mcp.Tool {
	return mcp.NewTool(ExchangeCodeTool,
		mcp.WithDescription("Exchange an authorization code from the LinkedIn callback for an access token. Returns LinkedIn's token response plus expires_at."),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Authorization code from the callback query string"),
		),
	)
}

func getUserInfoTool() mcp.Tool {
	return mcp.NewTool(GetUserInfoTool,
		mcp.WithDescription("Fetch the OpenID Connect profile (sub, name, email, picture) of the token's member."),
		mcp.WithString("access_token",
			mcp.Description("LinkedIn access token; defaults to the request's bearer token"),
		),
	)
}

func publishPostTool() mcp.Tool {
	return mcp.NewTool(PublishPostTool,
		mcp.WithDescription("Publish a public text post on behalf of a member."),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Post text"),
		),
		mcp.WithString("author_id",
			mcp.Description("Member id (the userinfo sub); looked up from the token when omitted"),
		),
		mcp.WithString("access_token",
			mcp.Description("LinkedIn access token; defaults to the request's bearer token"),
		),
	)
}

func tokenStatusTool() mcp.Tool {
	return mcp.NewTool(TokenStatusTool,
		mcp.WithDescription("Report when a token expires and whether it should be treated as expired (5 minute safety buffer)."),
		mcp.WithString("expires_at",
			mcp.Description("Stored expiry instant, RFC 3339; values without a zone are read as UTC"),
		),
		mcp.WithNumber("expires_in",
			mcp.Description("Seconds until expiry as returned by the token endpoint"),
		),
	)
}

type toolFunc func(ctx context.Context, args map[string]any) (any, error)

// wrap turns a toolFunc into an MCP handler. Failures become tool error
// results so the model can read LinkedIn's answer.
func (h *Handler) wrap(name string, fn toolFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger.Debug("Tool call", zap.String("tool", name))

		result, err := fn(ctx, request.GetArguments())
		if err != nil {
			logger.Warn("Tool call failed", zap.String("tool", name), zap.Error(err))
			return mcp.NewToolResultError(err.Error()), nil
		}

		body, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("failed to encode result for tool %s: %w", name, err)
		}
		return mcp.NewToolResultText(string(body)), nil
	}
}

func (h *Handler) authorizationURL(_ context.Context, args map[string]any) (any, error) {
	state, err := requiredString(args, "state")
	if err != nil {
		return nil, err
	}
	url, state := h.client.AuthorizationURL(state)
	return map[string]string{"url": url, "state": state}, nil
}

func (h *Handler) exchangeCode(ctx context.Context, args map[string]any) (any, error) {
	code, err := requiredString(args, "code")
	if err != nil {
		return nil, err
	}
	tok, err := h.client.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(tok.Raw)+1)
	for k, v := range tok.Raw {
		out[k] = v
	}
	out["expires_at"] = h.client.ComputeTokenExpiry(tok.ExpiresIn).Format(time.RFC3339)
	return out, nil
}

func (h *Handler) getUserInfo(ctx context.Context, args map[string]any) (any, error) {
	token, err := accessToken(ctx, args)
	if err != nil {
		return nil, err
	}
	return h.client.GetUserInfo(ctx, token)
}

func (h *Handler) publishPost(ctx context.Context, args map[string]any) (any, error) {
	content, err := requiredString(args, "content")
	if err != nil {
		return nil, err
	}
	token, err := accessToken(ctx, args)
	if err != nil {
		return nil, err
	}

	authorID := stringArg(args, "author_id")
	if authorID == "" {
		info, err := h.client.GetUserInfo(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve author: %w", err)
		}
		if authorID = info.Subject(); authorID == "" {
			return nil, errors.New("failed to resolve author: userinfo has no sub")
		}
	}

	return h.client.PostContent(ctx, content, token, authorID)
}

func (h *Handler) tokenStatus(_ context.Context, args map[string]any) (any, error) {
	var expiresAt time.Time
	switch {
	case stringArg(args, "expires_at") != "":
		t, err := linkedin.ParseExpiry(stringArg(args, "expires_at"))
		if err != nil {
			return nil, err
		}
		expiresAt = t
	case args["expires_in"] != nil:
		n, err := int64Arg(args, "expires_in")
		if err != nil {
			return nil, err
		}
		expiresAt = h.client.ComputeTokenExpiry(n)
	default:
		return nil, errors.New("one of expires_at or expires_in is required")
	}

	return map[string]any{
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
		"expired":    h.client.IsTokenExpired(expiresAt),
	}, nil
}

// accessToken prefers the explicit argument over the request's bearer token.
func accessToken(ctx context.Context, args map[string]any) (string, error) {
	if token := stringArg(args, "access_token"); token != "" {
		return token, nil
	}
	if info, ok := middleware.FromContext(ctx); ok {
		return info.Token, nil
	}
	return "", ErrNoAccessToken
}

func stringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}

func requiredString(args map[string]any, name string) (string, error) {
	v, ok := args[name]
	if !ok {
		return "", fmt.Errorf("missing required argument %q", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string", name)
	}
	return s, nil
}

func int64Arg(args map[string]any, name string) (int64, error) {
	switch v := args[name].(type) {
	case float64:
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case json.Number:
		return v.Int64()
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("argument %q must be a number", name)
	}
}
