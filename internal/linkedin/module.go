package linkedin

import (
	"github.com/brizzai/auto-linkedin/internal/config"
	"github.com/brizzai/auto-linkedin/internal/requester"
	"go.uber.org/fx"
)

// NewClientFromConfig creates a Client from the application configuration.
func NewClientFromConfig(cfg *config.Config, doer requester.Doer) *Client {
	return NewClient(ClientConfig{
		ClientID:     cfg.LinkedIn.ClientID,
		ClientSecret: cfg.LinkedIn.ClientSecret,
		RedirectURI:  cfg.LinkedIn.RedirectURI,
	}, WithRequester(doer))
}

// Module provides the LinkedIn client
var Module = fx.Module("linkedin",
	fx.Provide(
		NewClientFromConfig,
	),
)
