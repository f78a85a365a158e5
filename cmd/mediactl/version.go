package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mediacloud/go-mediacloud/core"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the client version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "mediactl", core.ClientVersion())
	},
}
