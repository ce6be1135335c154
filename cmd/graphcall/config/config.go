package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/loykin/graphcall"
	"github.com/loykin/graphcall/internal/common"
	"github.com/loykin/graphcall/internal/httpc"
	"github.com/loykin/graphcall/internal/util"
	"gopkg.in/yaml.v3"
)

type AuthConfig struct {
	AccessToken    string `mapstructure:"access_token" yaml:"access_token"`
	// AccessTokenEnv names an environment variable holding the token
	AccessTokenEnv string `mapstructure:"access_token_env" yaml:"access_token_env"`
	AppSecret      string `mapstructure:"app_secret" yaml:"app_secret"`
	AppSecretEnv   string `mapstructure:"app_secret_env" yaml:"app_secret_env"`

	// Client credentials grant, used when no access token is configured
	ClientID     string   `mapstructure:"client_id" yaml:"client_id"`
	ClientSecret string   `mapstructure:"client_secret" yaml:"client_secret"`
	TokenURL     string   `mapstructure:"token_url" yaml:"token_url"`
	Scopes       []string `mapstructure:"scopes" yaml:"scopes"`

	// AppsecretProof turns on appsecret_proof for every call
	AppsecretProof bool `mapstructure:"appsecret_proof" yaml:"appsecret_proof"`
}

type ClientConfig struct {
	BaseURL       string `mapstructure:"base_url" yaml:"base_url"`
	Timeout       string `mapstructure:"timeout" yaml:"timeout"`
	Insecure      bool   `mapstructure:"insecure" yaml:"insecure"`
	MinTLSVersion string `mapstructure:"min_tls_version" yaml:"min_tls_version"`
	MaxTLSVersion string `mapstructure:"max_tls_version" yaml:"max_tls_version"`

	// Retries is the number of extra attempts for get and delete calls; 0 disables retries.
	Retries           int   `mapstructure:"retries" yaml:"retries"`
	RetryServerErrors *bool `mapstructure:"retry_server_errors" yaml:"retry_server_errors"`
}

type LoggingConfig struct {
	Level         string `mapstructure:"level" yaml:"level"`                   // error, warn, info, debug
	Format        string `mapstructure:"format" yaml:"format"`                 // text, json, color
	MaskSensitive *bool  `mapstructure:"mask_sensitive" yaml:"mask_sensitive"` // enable/disable sensitive data masking
	Color         *bool  `mapstructure:"color" yaml:"color"`                   // enable/disable colorized output
}

type ConfigDoc struct {
	Auth    AuthConfig    `mapstructure:"auth" yaml:"auth"`
	Client  ClientConfig  `mapstructure:"client" yaml:"client"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// Load decodes the YAML file at path into c.
func (c *ConfigDoc) Load(path string) error {
	clean := filepath.Clean(path)
	// Ensure path points to a regular file to avoid opening directories/special files
	if info, statErr := os.Stat(clean); statErr != nil || !info.Mode().IsRegular() {
		if statErr != nil {
			return statErr
		}
		return fmt.Errorf("not a regular file: %s", clean)
	}
	// #nosec G304 -- config path is provided intentionally by the user/CI; cleaned and validated above
	f, err := os.Open(clean)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s: %w", clean, err)
	}
	return nil
}

// LoadFile loads path when it exists. A missing file is an error only when
// required is true.
func LoadFile(path string, required bool) (*ConfigDoc, error) {
	doc := &ConfigDoc{}
	if _, ok := util.TrimEmptyCheck(path); !ok {
		return doc, nil
	}
	if err := doc.Load(path); err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return nil, err
	}
	return doc, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given .env files into the process
// environment. Missing files are skipped and existing variables win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Credentials resolves env indirections and returns the client credentials.
func (c *ConfigDoc) Credentials() graphcall.Credentials {
	token := c.Auth.AccessToken
	if envVar, ok := util.TrimEmptyCheck(c.Auth.AccessTokenEnv); token == "" && ok {
		token = os.Getenv(envVar)
		if token == "" {
			common.LogWarn("access token env variable requested but empty or not set", "env_var", envVar)
		}
	}
	secret := c.Auth.AppSecret
	if envVar, ok := util.TrimEmptyCheck(c.Auth.AppSecretEnv); secret == "" && ok {
		secret = os.Getenv(envVar)
		if secret == "" {
			common.LogWarn("app secret env variable requested but empty or not set", "env_var", envVar)
		}
	}
	return graphcall.Credentials{
		AccessToken:  token,
		AppSecret:    secret,
		ClientID:     c.Auth.ClientID,
		ClientSecret: c.Auth.ClientSecret,
		TokenURL:     c.Auth.TokenURL,
		Scopes:       c.Auth.Scopes,
	}
}

// Timeout parses Client.Timeout; empty means the transport default.
func (c *ConfigDoc) Timeout() (time.Duration, error) {
	s, ok := util.TrimEmptyCheck(c.Client.Timeout)
	if !ok {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid client timeout %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid client timeout %q: must not be negative", s)
	}
	return d, nil
}

// ToClientConfig converts the document into the library client config.
func (c *ConfigDoc) ToClientConfig() (graphcall.ClientConfig, error) {
	timeout, err := c.Timeout()
	if err != nil {
		return graphcall.ClientConfig{}, err
	}
	if c.Client.Retries < 0 {
		return graphcall.ClientConfig{}, fmt.Errorf("invalid client retries %d: must not be negative", c.Client.Retries)
	}
	cc := graphcall.ClientConfig{
		Credentials: c.Credentials(),
		BaseURL:     c.Client.BaseURL,
		Timeout:     timeout,
		TLS:         httpc.TLSConfig(c.Client.Insecure, c.Client.MinTLSVersion, c.Client.MaxTLSVersion),
	}
	if c.Client.Retries > 0 {
		cc.Retry = graphcall.DefaultRetryConfig()
		cc.Retry.MaxRetries = c.Client.Retries
		if c.Client.RetryServerErrors != nil {
			cc.Retry.RetryServerErrors = *c.Client.RetryServerErrors
		}
	}
	return cc, nil
}

// NewAPI builds the API described by the document.
func (c *ConfigDoc) NewAPI(ctx context.Context) (*graphcall.API, error) {
	cc, err := c.ToClientConfig()
	if err != nil {
		return nil, err
	}
	return graphcall.NewClient(ctx, cc)
}

func (c *ConfigDoc) parseLogLevel() (graphcall.LogLevel, error) {
	level := util.TrimAndLower(c.Logging.Level)
	switch level {
	case "error":
		return graphcall.LogLevelError, nil
	case "warn", "warning":
		return graphcall.LogLevelWarn, nil
	case "info", "":
		return graphcall.LogLevelInfo, nil
	case "debug":
		return graphcall.LogLevelDebug, nil
	default:
		return graphcall.LogLevelInfo, fmt.Errorf("invalid logging level: %s (valid: error, warn, info, debug)", c.Logging.Level)
	}
}

// SetupLogging configures the global logger based on config settings. Logs go
// to stderr so stdout carries only call results.
func (c *ConfigDoc) SetupLogging() error {
	return c.SetupLoggingTo(os.Stderr)
}

// SetupLoggingTo is SetupLogging with an explicit destination.
func (c *ConfigDoc) SetupLoggingTo(w io.Writer) error {
	level, err := c.parseLogLevel()
	if err != nil {
		return err
	}

	var logger *graphcall.Logger
	format := util.TrimAndLower(c.Logging.Format)

	useColor := false
	if c.Logging.Color != nil {
		useColor = *c.Logging.Color
	} else if format == "color" || format == "colour" {
		useColor = true
	}

	switch format {
	case "json":
		logger = common.NewJSONLoggerTo(w, level)
	case "color", "colour":
		logger = common.NewColorLoggerTo(w, level)
	case "text", "":
		if useColor {
			logger = common.NewColorLoggerTo(w, level)
		} else {
			logger = common.NewTextLoggerTo(w, level)
		}
	default:
		return fmt.Errorf("invalid logging format: %s (valid: text, json, color)", c.Logging.Format)
	}

	maskingEnabled := true
	if c.Logging.MaskSensitive != nil {
		maskingEnabled = *c.Logging.MaskSensitive
	}
	logger.EnableMasking(maskingEnabled)

	graphcall.SetDefaultLogger(logger)
	graphcall.EnableMasking(maskingEnabled)

	logger.Debug("logging configured",
		"level", util.TrimWithDefault(util.TrimAndLower(c.Logging.Level), "info"),
		"format", format,
		"color", useColor,
		"mask_sensitive", maskingEnabled)

	return nil
}
