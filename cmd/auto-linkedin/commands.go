package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/brizzai/auto-linkedin/internal/config"
	"github.com/brizzai/auto-linkedin/internal/linkedin"
	"github.com/brizzai/auto-linkedin/internal/tui"
	"github.com/spf13/cobra"
)

func newAuthURLCmd(a *app) *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "auth-url",
		Short: "Print the LinkedIn consent-screen URL for a state value",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.LinkedIn.ClientID == "" {
				return fmt.Errorf("%w, set LINKEDIN_CLIENT_ID or linkedin.client_id", config.ErrMissingCredentials)
			}
			authURL, echoed := a.client().AuthorizationURL(state)
			return a.render(cmd, map[string]string{"url": authURL, "state": echoed})
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "CSRF state to echo back on the callback")
	_ = cmd.MarkFlagRequired("state")
	return cmd
}

func newExchangeCmd(a *app) *cobra.Command {
	var (
		code   string
		verify bool
	)

	cmd := &cobra.Command{
		Use:   "exchange",
		Short: "Exchange an authorization code for an access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.traced(cmd.Context(), func(ctx context.Context) error {
				client := a.client()
				tok, err := client.ExchangeCode(ctx, code)
				if err != nil {
					return err
				}

				out := make(map[string]any, len(tok.Raw)+2)
				for k, v := range tok.Raw {
					out[k] = v
				}
				out["expires_at"] = client.ComputeTokenExpiry(tok.ExpiresIn).Format(time.RFC3339)

				if verify {
					claims, err := client.VerifyIDToken(ctx, tok)
					if err != nil {
						return err
					}
					out["id_token_claims"] = claims.Raw
				}
				return a.render(cmd, out)
			})
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "Authorization code from the callback")
	cmd.Flags().BoolVar(&verify, "verify", false, "Verify the returned id_token against LinkedIn's keys")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}

func newUserInfoCmd(a *app) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "userinfo",
		Short: "Show the profile of the token's member",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.traced(cmd.Context(), func(ctx context.Context) error {
				info, err := a.client().GetUserInfo(ctx, token)
				if err != nil {
					return err
				}
				return a.render(cmd, info)
			})
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "LinkedIn access token")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func newPostCmd(a *app) *cobra.Command {
	var (
		token       string
		author      string
		content     string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Publish a public text post",
		Long: `Publish a public text post. Content comes from --content, from stdin when
--content is "-", or from the interactive composer with --interactive. When
--author is omitted the member id is looked up with the token.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := postContent(cmd.InOrStdin(), content, interactive)
			if err != nil {
				return err
			}

			return a.traced(cmd.Context(), func(ctx context.Context) error {
				client := a.client()
				memberID := author
				if memberID == "" {
					info, err := client.GetUserInfo(ctx, token)
					if err != nil {
						return fmt.Errorf("failed to resolve author: %w", err)
					}
					if memberID = info.Subject(); memberID == "" {
						return errors.New("failed to resolve author: userinfo has no sub")
					}
				}

				result, err := client.PostContent(ctx, text, token, memberID)
				if err != nil {
					return err
				}
				return a.render(cmd, result)
			})
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "LinkedIn access token")
	cmd.Flags().StringVar(&author, "author", "", "Member id or person URN of the author")
	cmd.Flags().StringVar(&content, "content", "", `Post text, or "-" to read stdin`)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Compose the post in the terminal")
	_ = cmd.MarkFlagRequired("token")
	cmd.MarkFlagsMutuallyExclusive("content", "interactive")
	return cmd
}

func postContent(stdin io.Reader, content string, interactive bool) (string, error) {
	switch {
	case interactive:
		return tui.RunComposer(content)
	case content == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		content = strings.TrimRight(string(b), "\n")
	}
	if strings.TrimSpace(content) == "" {
		return "", errors.New("post content is empty, use --content or --interactive")
	}
	return content, nil
}

func newTokenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Token expiry helpers",
	}

	var expiresIn int64
	expiryCmd := &cobra.Command{
		Use:   "expiry",
		Short: "Compute the expiry instant for an expires_in value",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := a.client()
			expiresAt := client.ComputeTokenExpiry(expiresIn)
			return a.render(cmd, tokenStatus(client, expiresAt))
		},
	}
	expiryCmd.Flags().Int64Var(&expiresIn, "expires-in", 0, "Seconds until expiry, as returned by the token endpoint")
	_ = expiryCmd.MarkFlagRequired("expires-in")

	var expiresAt string
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Report whether a stored expiry should be treated as expired",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := linkedin.ParseExpiry(expiresAt)
			if err != nil {
				return err
			}
			return a.render(cmd, tokenStatus(a.client(), t))
		},
	}
	statusCmd.Flags().StringVar(&expiresAt, "expires-at", "", "Expiry instant, RFC 3339; values without a zone are read as UTC")
	_ = statusCmd.MarkFlagRequired("expires-at")

	cmd.AddCommand(expiryCmd, statusCmd)
	return cmd
}

func tokenStatus(client *linkedin.Client, expiresAt time.Time) map[string]any {
	return map[string]any{
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
		"expired":    client.IsTokenExpired(expiresAt),
	}
}
