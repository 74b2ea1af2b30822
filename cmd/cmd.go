package cmd

import (
	"github.com/dreamerjackson/torrentspider/cmd/search"
	"github.com/dreamerjackson/torrentspider/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version.",
	Long:  "print version.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		version.Fprint(cmd.OutOrStdout())
	},
}

func Execute() {
	var rootCmd = &cobra.Command{Use: "torrentspider"}
	rootCmd.AddCommand(search.SearchCmd, versionCmd)
	rootCmd.Execute()
}
