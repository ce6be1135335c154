package graph

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

const (
	ParamAccessToken    = "access_token"
	ParamAppsecretProof = "appsecret_proof"
)

// AppsecretProof returns hex(HMAC-SHA256(appSecret, accessToken)).
func AppsecretProof(appSecret, accessToken string) string {
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write([]byte(accessToken))
	return hex.EncodeToString(mac.Sum(nil))
}

// InjectAuth adds the credential parameters to params in place and returns it.
// access_token is set whenever a token is present. appsecret_proof is set only
// when withProof is true and both the token and the secret are present.
// Injected values replace caller supplied ones.
func InjectAuth(params Params, accessToken, appSecret string, withProof bool) Params {
	if params == nil {
		params = Params{}
	}
	if accessToken == "" {
		return params
	}
	params[ParamAccessToken] = accessToken
	if withProof && appSecret != "" {
		params[ParamAppsecretProof] = AppsecretProof(appSecret, accessToken)
	}
	return params
}
