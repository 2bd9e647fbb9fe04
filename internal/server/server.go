// Package server exposes the LinkedIn client as an MCP (Model Context Protocol) tool server.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/brizzai/auto-linkedin/internal/config"
	"github.com/brizzai/auto-linkedin/internal/linkedin"
	"github.com/brizzai/auto-linkedin/internal/logger"
	"github.com/brizzai/auto-linkedin/internal/server/handler"
	"github.com/brizzai/auto-linkedin/internal/server/tool"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	// shutdownTimeout is the maximum time to wait for server shutdown
	shutdownTimeout = 5 * time.Second
)

// Server hosts the LinkedIn tools over one of the MCP transports: SSE,
// streamable HTTP, or STDIO.
type Server struct {
	config  *config.Config
	mcp     *mcpserver.MCPServer
	handler *handler.Handler
	tool    *tool.Handler
}

// NewServer creates a new MCP server instance with the LinkedIn tools registered.
func NewServer(cfg *config.Config, client *linkedin.Client) *Server {
	if cfg == nil {
		logger.Fatal("Config cannot be nil")
	}
	if client == nil {
		logger.Fatal("LinkedIn client cannot be nil")
	}

	mcpServer := mcpserver.NewMCPServer(
		cfg.Server.Name,
		cfg.Server.Version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)

	srv := &Server{
		config:  cfg,
		mcp:     mcpServer,
		handler: handler.NewHandler(cfg.Server.RequireAuth, cfg.Server.AllowOrigins),
		tool:    tool.NewHandler(client),
	}
	srv.tool.Register(mcpServer)

	return srv
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcpserver.MCPServer {
	return s.mcp
}

func (s *Server) address() string {
	return net.JoinHostPort(s.config.Server.Host, strconv.Itoa(s.config.Server.Port))
}

func (s *Server) ServeSSE(ctx context.Context) error {
	logger.Info("Starting SSE server")

	sseServer := mcpserver.NewSSEServer(
		s.mcp,
		mcpserver.WithBaseURL("http://"+s.address()),
	)

	return s.serveHTTP(ctx, sseServer, "SSE")
}

func (s *Server) ServeHTTP(ctx context.Context) error {
	logger.Info("Starting HTTP server")
	httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
	return s.serveHTTP(ctx, httpServer, "HTTP")
}

func (s *Server) serveHTTP(ctx context.Context, mcpHandler http.Handler, mode string) error {
	addr := s.address()
	server := &http.Server{
		Addr:              addr,
		Handler:           s.handler.CreateHTTPHandler(mcpHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel for server errors
	errChan := make(chan error, 1)

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server",
			zap.String("mode", mode),
			zap.String("address", addr),
		)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Wait for context cancellation or server error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down server",
			zap.String("mode", mode),
			zap.Duration("timeout", shutdownTimeout),
		)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil

	case err := <-errChan:
		return err
	}
}

// ServeSTDIO speaks MCP over stdin/stdout until ctx is canceled or stdin closes.
func (s *Server) ServeSTDIO(ctx context.Context) error {
	return s.serveSTDIO(ctx, os.Stdin, os.Stdout)
}

func (s *Server) serveSTDIO(ctx context.Context, in io.Reader, out io.Writer) error {
	logger.Info("Starting STDIO server")
	stdioServer := mcpserver.NewStdioServer(s.mcp)
	err := stdioServer.Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Start starts the server in the configured mode (SSE, HTTP, or STDIO).
// It blocks until ctx is canceled or the transport fails.
func (s *Server) Start(ctx context.Context) error {
	logger.Info("Starting server",
		zap.String("mode", string(s.config.Server.Mode)),
		zap.String("version", s.config.Server.Version),
		zap.Bool("require_auth", s.config.Server.RequireAuth),
	)

	switch s.config.Server.Mode {
	case config.ServerModeSSE:
		return s.ServeSSE(ctx)
	case config.ServerModeHTTP:
		return s.ServeHTTP(ctx)
	case config.ServerModeSTDIO:
		return s.ServeSTDIO(ctx)
	default:
		return fmt.Errorf("%w: %s", config.ErrInvalidServerMode, s.config.Server.Mode)
	}
}

// run ties the server to the fx lifecycle. When the transport stops on its
// own (stdin closed, listener failure) the whole application shuts down.
func run(lc fx.Lifecycle, shutdowner fx.Shutdowner, s *Server) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				code := 0
				if err := s.Start(ctx); err != nil {
					logger.Error("Server stopped with error", zap.Error(err))
					code = 1
				}
				if ctx.Err() == nil {
					_ = shutdowner.Shutdown(fx.ExitCode(code))
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

// Module provides the MCP server and runs it for the lifetime of the app
var Module = fx.Module("mcp_server",
	fx.Provide(
		NewServer,
	),
	fx.Invoke(run),
)
