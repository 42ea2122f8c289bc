package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/mandalnilabja/chatrelay/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		short, _ := cmd.Flags().GetBool("short")
		if short {
			fmt.Fprintln(cmd.OutOrStdout(), version.Version)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s %s/%s)\n",
			version.AppName, version.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("short", "s", false, "Show only version number")
}
