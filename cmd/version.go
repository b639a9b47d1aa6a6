package cmd

import (
	"github.com/markusressel/karlson/internal/ui"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of karlson",
	Long:  `All software has versions. This is karlson's`,
	Run: func(cmd *cobra.Command, args []string) {
		ui.Printfln(version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
