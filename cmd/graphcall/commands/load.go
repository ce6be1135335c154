package commands

import (
	"github.com/loykin/graphcall/cmd/graphcall/config"
	"github.com/loykin/graphcall/internal/util"
	"github.com/spf13/viper"
)

// DefaultConfigPath is used when --config is not given.
const DefaultConfigPath = "./config/config.yaml"

// LoadConfig reads .env files, the YAML config and flag/env overrides from v,
// then configures logging.
func LoadConfig(v *viper.Viper) (*config.ConfigDoc, error) {
	if err := config.LoadDotEnv(v.GetStringSlice("env_file")...); err != nil {
		return nil, err
	}

	path := util.TrimWithDefault(v.GetString("config"), DefaultConfigPath)
	doc, err := config.LoadFile(path, path != DefaultConfigPath)
	if err != nil {
		return nil, err
	}

	if s, ok := util.TrimEmptyCheck(v.GetString("access_token")); ok {
		doc.Auth.AccessToken = s
	}
	if s, ok := util.TrimEmptyCheck(v.GetString("app_secret")); ok {
		doc.Auth.AppSecret = s
	}
	if s, ok := util.TrimEmptyCheck(v.GetString("base_url")); ok {
		doc.Client.BaseURL = s
	}
	if s, ok := util.TrimEmptyCheck(v.GetString("log_level")); ok {
		doc.Logging.Level = s
	}
	if n := v.GetInt("retries"); n > 0 {
		doc.Client.Retries = n
	}
	if v.GetBool("insecure") {
		doc.Client.Insecure = true
	}

	if err := doc.SetupLogging(); err != nil {
		return nil, err
	}
	return doc, nil
}
