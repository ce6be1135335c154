package main

import (
	"github.com/loykin/graphcall/cmd/graphcall/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:           "graphcall",
	Short:         "Call the Graph API from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Defaults
	v := viper.GetViper()
	v.SetDefault("config", commands.DefaultConfigPath)
	v.SetDefault("env_file", []string{".env"})
	v.SetDefault("verb", "get")
	v.SetDefault("component", "")
	v.SetDefault("timeout", 0)

	// Environment variables support: GRAPHCALL_CONFIG, GRAPHCALL_ACCESS_TOKEN, ...
	v.SetEnvPrefix("GRAPHCALL")
	v.AutomaticEnv()

	pf := rootCmd.PersistentFlags()
	pf.String("config", v.GetString("config"), "path to a config yaml")
	pf.StringSlice("env-file", v.GetStringSlice("env_file"), "dotenv files loaded before the config")
	pf.String("access-token", "", "access token (overrides config)")
	pf.String("app-secret", "", "app secret (overrides config)")
	pf.String("base-url", "", "Graph base URL (overrides config)")
	pf.String("log-level", "", "log level: error, warn, info, debug")
	pf.Bool("insecure", false, "skip TLS certificate verification")
	pf.Int("retries", 0, "retry get/delete calls on network and 5xx failures (overrides config)")

	f := commands.CallCmd.Flags()
	f.StringArrayP("param", "p", nil, "request parameter key=value (repeat a key to send a list)")
	f.StringArray("json-param", nil, "request parameter key=<json> for nested values")
	f.StringP("verb", "X", v.GetString("verb"), "HTTP verb: get, post, put, delete")
	f.StringP("component", "c", v.GetString("component"), "return a response component: response, status, headers, body")
	f.Bool("appsecret-proof", false, "send appsecret_proof with the access token")
	f.Bool("beta", false, "use the beta Graph host")
	f.Bool("video", false, "use the video upload host")
	f.Duration("timeout", 0, "per-call timeout (0 = client default)")
	f.Bool("fail", false, "exit non-zero on 4xx responses")
	f.Bool("color", false, "colorize JSON output")
	f.Bool("raw", false, "print compact JSON")

	_ = v.BindPFlag("config", pf.Lookup("config"))
	_ = v.BindPFlag("env_file", pf.Lookup("env-file"))
	_ = v.BindPFlag("access_token", pf.Lookup("access-token"))
	_ = v.BindPFlag("app_secret", pf.Lookup("app-secret"))
	_ = v.BindPFlag("base_url", pf.Lookup("base-url"))
	_ = v.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = v.BindPFlag("insecure", pf.Lookup("insecure"))
	_ = v.BindPFlag("retries", pf.Lookup("retries"))
	_ = v.BindPFlag("verb", f.Lookup("verb"))
	_ = v.BindPFlag("component", f.Lookup("component"))
	_ = v.BindPFlag("appsecret_proof", f.Lookup("appsecret-proof"))
	_ = v.BindPFlag("beta", f.Lookup("beta"))
	_ = v.BindPFlag("video", f.Lookup("video"))
	_ = v.BindPFlag("timeout", f.Lookup("timeout"))
	_ = v.BindPFlag("fail", f.Lookup("fail"))
	_ = v.BindPFlag("color", f.Lookup("color"))
	_ = v.BindPFlag("raw", f.Lookup("raw"))

	rootCmd.AddCommand(commands.CallCmd)
	rootCmd.AddCommand(commands.ProofCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		exitHandler.LogFatalError(err, "command execution failed")
	}
}
