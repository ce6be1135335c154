package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/loykin/graphcall/internal/common"
)

// Credentials are the secrets a Graph client may be configured with.
//
// AccessToken, when set, is used as is. Otherwise, if ClientID is set, an app
// access token is obtained with the client credentials grant. AppSecret signs
// calls with appsecret_proof and doubles as the client secret.
type Credentials struct {
	AccessToken  string   `mapstructure:"access_token" yaml:"access_token"`
	AppSecret    string   `mapstructure:"app_secret" yaml:"app_secret"`
	ClientID     string   `mapstructure:"client_id" yaml:"client_id"`
	ClientSecret string   `mapstructure:"client_secret" yaml:"client_secret"`
	TokenURL     string   `mapstructure:"token_url" yaml:"token_url"`
	Scopes       []string `mapstructure:"scopes" yaml:"scopes"`
}

// Resolve returns the access token to use. An empty token with a nil error
// means the client runs unauthenticated.
func (c Credentials) Resolve(ctx context.Context, client *http.Client) (string, error) {
	logger := common.GetLogger().WithComponent("auth")

	if tok := strings.TrimSpace(c.AccessToken); tok != "" {
		logger.Debug("using configured access token")
		return tok, nil
	}
	if strings.TrimSpace(c.ClientID) == "" {
		logger.Debug("no credentials configured; calls will be unauthenticated")
		return "", nil
	}

	secret := c.ClientSecret
	if strings.TrimSpace(secret) == "" {
		secret = c.AppSecret
	}
	tok, err := AppToken(ctx, ClientCredentialsConfig{
		ClientID:     c.ClientID,
		ClientSecret: secret,
		TokenURL:     c.TokenURL,
		Scopes:       c.Scopes,
		HTTPClient:   client,
	})
	if err != nil {
		logger.Error("app token acquisition failed", "error", err, "client_id", c.ClientID)
		return "", err
	}
	logger.Info("acquired app access token", "client_id", c.ClientID)
	return tok, nil
}
