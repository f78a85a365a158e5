package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mediacloud/go-mediacloud/typed"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check connectivity and credentials",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		res, err := client.Admin.PingWithContext(cmd.Context())
		if err != nil {
			return err
		}
		return failed(cmd, res)
	},
}

var usageDate string

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show plan limits and consumption",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params := &typed.UsageParams{}
		if usageDate != "" {
			date, err := time.Parse(time.DateOnly, usageDate)
			if err != nil {
				return fmt.Errorf("invalid --date %q: %w", usageDate, err)
			}
			params.Date = date
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		res, err := client.Admin.UsageWithContext(cmd.Context(), params)
		if err != nil {
			return err
		}
		return failed(cmd, res)
	},
}

func init() {
	usageCmd.Flags().StringVar(&usageDate, "date", "", "report a past day (YYYY-MM-DD)")
}
