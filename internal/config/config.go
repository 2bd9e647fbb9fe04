package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	// ErrMissingCredentials is returned when the LinkedIn client id or secret is not set
	ErrMissingCredentials = errors.New("linkedin client id and client secret are required")
	// ErrInvalidServerMode is returned for an unknown server mode
	ErrInvalidServerMode = errors.New("invalid server mode")
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("auto-linkedin version %s, commit %s, built at %s", version, commit, date)
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	LinkedIn  LinkedInConfig  `mapstructure:"linkedin"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerMode string

const (
	ServerModeSSE   ServerMode = "sse"
	ServerModeSTDIO ServerMode = "stdio"
	ServerModeHTTP  ServerMode = "http"
)

type ServerConfig struct {
	Port         int        `mapstructure:"port"`
	Host         string     `mapstructure:"host"`
	Mode         ServerMode `mapstructure:"mode"`
	Name         string     `mapstructure:"name"`
	Version      string     `mapstructure:"version"`
	RequireAuth  bool       `mapstructure:"require_auth"`
	AllowOrigins []string   `mapstructure:"allow_origins"`
}

type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path"`
	AppendToFile      bool   `mapstructure:"append_to_file"`
	DisableConsole    bool   `mapstructure:"disable_console"`
	// Stderr routes console output to stderr, required in stdio mode
	Stderr bool `mapstructure:"stderr"`
}

// LinkedInConfig holds the OAuth application registered with LinkedIn.
type LinkedInConfig struct {
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	RedirectURI  string        `mapstructure:"redirect_uri"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

// InitFlags initializes command line flags (without parsing)
func InitFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to a config file")
	fs.String("mode", "", "Server mode (stdio|sse|http)")
	fs.String("log-level", "", "Log level (debug|info|warn|error)")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", string(ServerModeSTDIO))
	v.SetDefault("server.name", "Auto LinkedIn")
	v.SetDefault("server.version", version)
	v.SetDefault("server.require_auth", false)
	v.SetDefault("server.allow_origins", []string{})
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.disable_stacktrace", false)
	v.SetDefault("logging.output_path", "")
	v.SetDefault("logging.append_to_file", false)
	v.SetDefault("logging.disable_console", false)
	v.SetDefault("logging.stderr", false)
	v.SetDefault("linkedin.timeout", "30s")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("telemetry.endpoint", "")
	v.SetDefault("telemetry.service_name", "auto-linkedin")
}

// Load reads the configuration. A missing config file is not an error.
// fs may be nil when no flags should be bound.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("AUTO_LINKEDIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Plain LINKEDIN_* names are accepted alongside the prefixed ones
	for key, env := range map[string]string{
		"linkedin.client_id":     "LINKEDIN_CLIENT_ID",
		"linkedin.client_secret": "LINKEDIN_CLIENT_SECRET",
		"linkedin.redirect_uri":  "LINKEDIN_REDIRECT_URI",
	} {
		if err := v.BindEnv(key, "AUTO_LINKEDIN_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, err
		}
	}

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, err
		}
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.auto-linkedin")
		}
		v.AddConfigPath("/etc/auto-linkedin")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}

		//Loading additionals config files
		if _, err := os.Stat("/config/config.yaml"); err == nil {
			v.SetConfigFile("/config/config.yaml")
			if err := v.MergeInConfig(); err != nil {
				return nil, err
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if mode := v.GetString("mode"); mode != "" {
		config.Server.Mode = ServerMode(mode)
	}
	if level := v.GetString("log-level"); level != "" {
		config.Logging.Level = level
	}

	return &config, nil
}

// Validate checks the LinkedIn credentials needed for the token endpoint.
func (c *Config) Validate() error {
	if c.LinkedIn.ClientID == "" || c.LinkedIn.ClientSecret == "" {
		return fmt.Errorf("%w, set LINKEDIN_CLIENT_ID and LINKEDIN_CLIENT_SECRET or linkedin.client_id/linkedin.client_secret", ErrMissingCredentials)
	}
	return nil
}

// ValidateServer checks the settings used by the MCP server.
func (c *Config) ValidateServer() error {
	switch c.Server.Mode {
	case ServerModeSSE, ServerModeHTTP:
		if c.Server.Port < 0 || c.Server.Port > 65535 {
			return fmt.Errorf("invalid server port %d", c.Server.Port)
		}
	case ServerModeSTDIO:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidServerMode, c.Server.Mode)
	}
	return c.Validate()
}
