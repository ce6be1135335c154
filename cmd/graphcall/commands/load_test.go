package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/loykin/graphcall/internal/common"
	"github.com/spf13/viper"
)

func TestLoadConfig_OverridesAndDotEnv(t *testing.T) {
	prev := common.GetLogger()
	t.Cleanup(func() { common.SetDefaultLogger(prev) })

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("auth:\n  access_token: fromfile\n  app_secret_env: TEST_LOAD_SECRET\nlogging:\n  level: error\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("TEST_LOAD_SECRET=dotenv-secret\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_ = os.Unsetenv("TEST_LOAD_SECRET")
	t.Cleanup(func() { _ = os.Unsetenv("TEST_LOAD_SECRET") })

	v := viper.New()
	v.Set("config", cfgPath)
	v.Set("env_file", []string{envPath})
	v.Set("access_token", "fromflag")
	v.Set("base_url", "http://localhost:1")

	doc, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	creds := doc.Credentials()
	if creds.AccessToken != "fromflag" {
		t.Fatalf("flag should override file token, got %q", creds.AccessToken)
	}
	if creds.AppSecret != "dotenv-secret" {
		t.Fatalf("app secret from .env = %q", creds.AppSecret)
	}
	if doc.Client.BaseURL != "http://localhost:1" {
		t.Fatalf("base url = %q", doc.Client.BaseURL)
	}
}

func TestLoadConfig_MissingExplicitConfig(t *testing.T) {
	v := viper.New()
	v.Set("config", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := LoadConfig(v); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}
