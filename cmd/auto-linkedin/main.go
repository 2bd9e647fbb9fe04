package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/brizzai/auto-linkedin/internal/config"
	"github.com/brizzai/auto-linkedin/internal/linkedin"
	"github.com/brizzai/auto-linkedin/internal/logger"
	"github.com/brizzai/auto-linkedin/internal/requester"
	"github.com/brizzai/auto-linkedin/internal/telemetry"
	"github.com/brizzai/auto-linkedin/internal/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			pterm.Error.Printf("\nCaught panic: %v\n", r)
			pterm.Error.Printf("%s\n", debug.Stack())
			os.Exit(2)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	cfg    *config.Config
	output utils.OutputFormat
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "auto-linkedin",
		Short: "Sign in with LinkedIn and publish posts",
		Long: `auto-linkedin drives the LinkedIn OAuth 2.0 authorization code flow and the
member APIs used after login. Run the subcommands directly, or "serve" to expose
them as MCP tools.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	config.InitFlags(flags)
	flags.StringP("output", "o", string(utils.OutputPretty), "Output format (pretty|json|yaml)")
	flags.BoolP("version", "v", false, "Show version information")

	rootCmd.AddCommand(
		newAuthURLCmd(a),
		newExchangeCmd(a),
		newUserInfoCmd(a),
		newPostCmd(a),
		newTokenCmd(a),
		newServeCmd(a),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	if versionFlag, _ := cmd.Flags().GetBool("version"); versionFlag {
		pterm.Info.Println(config.GetVersionInfo())
		os.Exit(0)
	}

	output, _ := cmd.Flags().GetString("output")
	format, err := utils.ParseOutputFormat(output)
	if err != nil {
		return err
	}
	a.output = format

	cfg, err := config.Load(cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}
	// stdout carries command output and the stdio MCP stream
	cfg.Logging.Stderr = true
	if err := logger.InitLogger(&cfg.Logging); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *app) client() *linkedin.Client {
	return linkedin.NewClientFromConfig(a.cfg, requester.NewHTTPRequesterFromConfig(a.cfg))
}

// traced runs fn with tracing installed for the duration of one command.
func (a *app) traced(ctx context.Context, fn func(context.Context) error) error {
	shutdown, err := telemetry.Setup(ctx, a.cfg.Telemetry)
	if err != nil {
		logger.Warn("Tracing disabled", zap.Error(err))
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("Failed to flush traces", zap.Error(err))
		}
		_ = logger.Sync()
	}()
	return fn(ctx)
}

func (a *app) render(cmd *cobra.Command, v any) error {
	return utils.Render(cmd.OutOrStdout(), a.output, v)
}
