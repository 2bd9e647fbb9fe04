package main

import (
	"context"
	"fmt"

	"github.com/brizzai/auto-linkedin/internal/config"
	"github.com/brizzai/auto-linkedin/internal/linkedin"
	"github.com/brizzai/auto-linkedin/internal/logger"
	"github.com/brizzai/auto-linkedin/internal/requester"
	"github.com/brizzai/auto-linkedin/internal/server"
	"github.com/brizzai/auto-linkedin/internal/telemetry"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Expose the LinkedIn operations as MCP tools",
		Long: `Run an MCP server with the linkedin_* tools. The transport follows --mode
(stdio, sse or http). In sse and http modes the access token may be sent as an
Authorization: Bearer header instead of a tool argument.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.ValidateServer(); err != nil {
				return err
			}
			return runServer(cmd.Context(), a.cfg)
		},
	}
}

func appOptions(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.GetLogger().Named("fx")}
		}),
		requester.Module,
		linkedin.Module,
		telemetry.Module,
		server.Module,
	)
}

func newApp(cfg *config.Config) *fx.App {
	return fx.New(appOptions(cfg))
}

func runServer(ctx context.Context, cfg *config.Config) error {
	defer func() { _ = logger.Sync() }()

	app := newApp(cfg)
	if err := app.Err(); err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	sig := <-app.Wait()
	logger.Info("Stopping", zap.Any("signal", sig.Signal), zap.Int("exit_code", sig.ExitCode))

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if sig.ExitCode != 0 {
		return fmt.Errorf("server exited with code %d", sig.ExitCode)
	}
	return nil
}
