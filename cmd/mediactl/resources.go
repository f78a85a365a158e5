package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mediacloud/go-mediacloud/core"
	"github.com/mediacloud/go-mediacloud/typed"
)

var target struct {
	resourceType string
	deliveryType string
}

func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&target.resourceType, "resource-type", string(core.ResourceTypeImage), "image, video or raw")
	cmd.Flags().StringVar(&target.deliveryType, "type", string(core.DeliveryTypeUpload), "delivery type")
}

var resourceCmd = &cobra.Command{
	Use:   "resource",
	Short: "Inspect a single asset",
}

var resourceGetCmd = &cobra.Command{
	Use:   "get PUBLIC_ID",
	Short: "Show the details of an asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		res, err := client.Resources.GetWithContext(cmd.Context(), &typed.GetResourceParams{
			PublicID:     args[0],
			ResourceType: core.ResourceType(target.resourceType),
			Type:         core.DeliveryType(target.deliveryType),
		})
		if err != nil {
			return err
		}
		return failed(cmd, res)
	},
}

var deleteOpts struct {
	tag       string
	prefix    string
	publicIDs []string
	all       bool
}

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Operate on many assets",
}

var resourcesDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete assets by tag, prefix, public ids or all of a type",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params := &typed.DelResParams{
			ResourceType: core.ResourceType(target.resourceType),
			Type:         core.DeliveryType(target.deliveryType),
		}
		switch {
		case deleteOpts.tag != "":
			params.SetTag(deleteOpts.tag)
		case deleteOpts.prefix != "":
			params.SetPrefix(deleteOpts.prefix)
		case len(deleteOpts.publicIDs) > 0:
			params.SetPublicIDs(deleteOpts.publicIDs...)
		case deleteOpts.all:
			params.SetAll()
		default:
			return errors.New("one of --tag, --prefix, --public-id or --all is required")
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		res, err := client.Resources.DeleteWithContext(cmd.Context(), params)
		if err != nil {
			return err
		}
		return failed(cmd, res)
	},
}

func init() {
	addTargetFlags(resourceGetCmd)
	resourceCmd.AddCommand(resourceGetCmd)

	addTargetFlags(resourcesDeleteCmd)
	f := resourcesDeleteCmd.Flags()
	f.StringVar(&deleteOpts.tag, "tag", "", "delete assets carrying this tag")
	f.StringVar(&deleteOpts.prefix, "prefix", "", "delete assets whose public id starts with this prefix")
	f.StringSliceVar(&deleteOpts.publicIDs, "public-id", nil, "delete this public id (repeatable)")
	f.BoolVar(&deleteOpts.all, "all", false, "delete every asset of the type")
	resourcesDeleteCmd.MarkFlagsMutuallyExclusive("tag", "prefix", "public-id", "all")
	resourcesCmd.AddCommand(resourcesDeleteCmd)
}
