package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mediacloud/go-mediacloud/core"
	"github.com/mediacloud/go-mediacloud/delivery"
)

var urlOpts struct {
	transformation string
	format         string
	version        int64
	sign           bool
}

var urlCmd = &cobra.Command{
	Use:   "url PUBLIC_ID",
	Short: "Print the delivery URL of an asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		builder, err := delivery.NewBuilder(config)
		if err != nil {
			return err
		}
		u := delivery.URL{
			PublicID:     args[0],
			ResourceType: core.ResourceType(target.resourceType),
			Type:         core.DeliveryType(target.deliveryType),
			Format:       urlOpts.format,
			Version:      urlOpts.version,
			SignURL:      urlOpts.sign,
		}
		if urlOpts.transformation != "" {
			u.Transformation = core.ParseTransformation(urlOpts.transformation)
		}
		out, err := builder.Build(u)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	addTargetFlags(urlCmd)
	f := urlCmd.Flags()
	f.StringVarP(&urlOpts.transformation, "transformation", "t", "", "transformation, e.g. c_fill,w_100/e_sepia")
	f.StringVarP(&urlOpts.format, "format", "f", "", "file extension to deliver")
	f.Int64Var(&urlOpts.version, "version", 0, "asset version")
	f.BoolVar(&urlOpts.sign, "sign", false, "add a URL signature")
}
