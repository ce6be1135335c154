package commands

import (
	"errors"
	"fmt"

	"github.com/loykin/graphcall"
	"github.com/loykin/graphcall/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Proof computes the appsecret_proof for the configured credentials. The
// token is trimmed the way credential resolution trims it.
func Proof(accessToken, appSecret string) (string, error) {
	token, ok := util.TrimEmptyCheck(accessToken)
	if !ok {
		return "", errors.New("access token is required")
	}
	if _, ok := util.TrimEmptyCheck(appSecret); !ok {
		return "", errors.New("app secret is required")
	}
	return graphcall.AppsecretProof(appSecret, token), nil
}

var ProofCmd = &cobra.Command{
	Use:   "proof",
	Short: "Print the appsecret_proof for the configured access token and app secret",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := LoadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		creds := doc.Credentials()
		proof, err := Proof(creds.AccessToken, creds.AppSecret)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), proof)
		return err
	},
}
