package constants

const (
	// TokenType for Bearer authentication
	TokenType = "Bearer"

	// AuthHeaderName is the name of the Authorization header
	AuthHeaderName = "Authorization"

	// AuthHeaderPrefix is the prefix for the Authorization header value
	AuthHeaderPrefix = "Bearer "

	// TokenQueryParam is the query parameter name for token
	TokenQueryParam = "token"

	// Realm advertised in WWW-Authenticate challenges
	Realm = "LinkedIn MCP Server"
)

// Headers allowed on cross-origin MCP requests
var (
	CORSAllowMethods  = "GET, POST, OPTIONS, DELETE"
	CORSAllowHeaders  = "Content-Type, Authorization, Mcp-Session-Id"
	CORSExposeHeaders = "Mcp-Session-Id, WWW-Authenticate"
)
