package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mediacloud/go-mediacloud/core"
)

var signCmd = &cobra.Command{
	Use:   "sign KEY=VALUE...",
	Short: "Print the string to sign and the signature of a parameter set",
	Long: "Computes the upload API signature of the given parameters with the configured secret.\n" +
		"Repeat a key to build a list; list values are joined with commas when signed.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := parseKeyValues(args)
		if err != nil {
			return err
		}
		config, err := loadConfig()
		if err != nil {
			return err
		}
		if err := config.Validate(core.WithCredentials, core.WithSignatureAlgorithm); err != nil {
			return err
		}
		record := core.Record{
			"string_to_sign": core.StringToSign(params),
			"signature":      core.SignParameters(params, config.ApiSecret, config.SignatureAlgorithm),
			"algorithm":      string(config.SignatureAlgorithm),
		}
		return render(cmd, record)
	},
}

func parseKeyValues(args []string) (core.Params, error) {
	params := core.Params{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected KEY=VALUE", arg)
		}
		switch prev := params[key].(type) {
		case nil:
			params[key] = value
		case string:
			params[key] = []string{prev, value}
		case []string:
			params[key] = append(prev, value)
		}
	}
	return params, nil
}
