package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// DefaultTokenURL is the Graph OAuth token endpoint.
const DefaultTokenURL = "https://graph.facebook.com/oauth/access_token"

// ClientCredentialsConfig holds configuration for the Client Credentials grant.
type ClientCredentialsConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
	// HTTPClient, when set, carries the token request.
	HTTPClient *http.Client
}

// AppToken acquires an app access token with the client credentials grant.
func AppToken(ctx context.Context, c ClientCredentialsConfig) (string, error) {
	clientID := strings.TrimSpace(c.ClientID)
	clientSecret := strings.TrimSpace(c.ClientSecret)
	if clientID == "" || clientSecret == "" {
		return "", errors.New("oauth2: client_id and client_secret are required for client_credentials grant")
	}
	tokenURL := strings.TrimSpace(c.TokenURL)
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if c.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.HTTPClient)
	}

	cc := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       c.Scopes,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	tok, err := cc.Token(ctx)
	if err != nil {
		return "", err
	}
	return normalizeToken(tok)
}

func normalizeToken(tok *oauth2.Token) (string, error) {
	if tok == nil || !tok.Valid() || strings.TrimSpace(tok.AccessToken) == "" {
		return "", errors.New("oauth2: received invalid token")
	}
	return tok.AccessToken, nil
}
