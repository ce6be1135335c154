package commands

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/loykin/graphcall"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CallRequest is one CLI invocation of the call command.
type CallRequest struct {
	Path           string
	Verb           string
	Params         graphcall.Params
	Component      string
	AppsecretProof bool
	Beta           bool
	Video          bool
	Timeout        time.Duration
	// FailOnError turns 4xx responses into an error after printing them.
	FailOnError    bool
}

func (r CallRequest) options(status *int) []graphcall.Option {
	httpOptions := map[string]any{}
	if r.Beta {
		httpOptions["beta"] = true
	}
	if r.Video {
		httpOptions["video"] = true
	}
	if r.Timeout > 0 {
		httpOptions["timeout"] = r.Timeout.String()
	}
	return []graphcall.Option{
		graphcall.WithComponent(graphcall.ParseComponent(r.Component)),
		graphcall.WithAppsecretProof(r.AppsecretProof),
		graphcall.WithHTTPOptions(httpOptions),
		graphcall.WithErrorCallback(func(resp *graphcall.Response) { *status = resp.Status }),
	}
}

// RunCall performs req with api and prints the result.
func RunCall(ctx context.Context, api *graphcall.API, req CallRequest, p Printer) error {
	status := 0
	result, err := api.Call(ctx, req.Path, req.Params, req.Verb, req.options(&status)...)
	if err != nil {
		return err
	}
	if err := p.Print(result); err != nil {
		return err
	}
	if req.FailOnError && status >= http.StatusBadRequest {
		return fmt.Errorf("graph call returned status %d", status)
	}
	return nil
}

var CallCmd = &cobra.Command{
	Use:   "call PATH",
	Short: "Perform a single Graph API call and print the result",
	Example: `  graphcall call me --param fields=id,name
  graphcall call 123/feed --verb post --param message=hello --appsecret-proof
  graphcall call me/photos --param fields=id --param fields=link --component status`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viper.GetViper()
		doc, err := LoadConfig(v)
		if err != nil {
			return err
		}

		pairs, err := cmd.Flags().GetStringArray("param")
		if err != nil {
			return err
		}
		params, err := ParseParams(pairs)
		if err != nil {
			return err
		}
		jsonPairs, err := cmd.Flags().GetStringArray("json-param")
		if err != nil {
			return err
		}
		if err := ParseJSONParams(params, jsonPairs); err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		api, err := doc.NewAPI(ctx)
		if err != nil {
			return err
		}

		req := CallRequest{
			Path:           args[0],
			Verb:           v.GetString("verb"),
			Params:         params,
			Component:      v.GetString("component"),
			AppsecretProof: v.GetBool("appsecret_proof") || doc.Auth.AppsecretProof,
			Beta:           v.GetBool("beta"),
			Video:          v.GetBool("video"),
			Timeout:        v.GetDuration("timeout"),
			FailOnError:    v.GetBool("fail"),
		}
		p := Printer{Out: cmd.OutOrStdout(), Color: v.GetBool("color"), Raw: v.GetBool("raw")}
		return RunCall(ctx, api, req, p)
	},
}
