package cmd

import (
	"fmt"
	"os"

	"github.com/markusressel/karlson/cmd/config"
	"github.com/markusressel/karlson/cmd/device"
	"github.com/markusressel/karlson/cmd/global"
	"github.com/markusressel/karlson/internal"
	"github.com/markusressel/karlson/internal/configuration"
	"github.com/markusressel/karlson/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "karlson",
	Short: "A daemon to keep the fans of a computer at a steady level.",
	Long: `karlson is a simple daemon that keeps the fans of mainboards and
graphics cards near a target level, and only speeds them up
when their devices get hot.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupUi()
	},
	// this is the default command to run when no subcommand is specified
	Run: func(cmd *cobra.Command, args []string) {
		printHeader()

		configPath := configuration.DetectAndReadConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()
		err := configuration.Validate()
		if err != nil {
			ui.ErrorAndNotify("Config Validation Error", "%v", err)
			os.Exit(1)
		}

		internal.RunDaemon()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&global.CfgFile, "config", "c", "", "config file (default is $HOME/karlson.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&global.NoColor, "no-color", "", false, "Disable all terminal output coloration")
	rootCmd.PersistentFlags().BoolVarP(&global.NoStyle, "no-style", "", false, "Disable all terminal output styling")
	rootCmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "More verbose output")

	rootCmd.AddCommand(config.Command)
	rootCmd.AddCommand(device.Command)
}

func setupUi() {
	ui.SetDebugEnabled(global.Verbose)

	if global.NoColor {
		pterm.DisableColor()
	}
	if global.NoStyle {
		pterm.DisableStyling()
	}
}

// Print a large text with the LetterStyle from the standard theme.
func printHeader() {
	err := pterm.DefaultBigText.WithLetters(
		pterm.NewLettersFromStringWithStyle("karl", pterm.NewStyle(pterm.FgLightBlue)),
		pterm.NewLettersFromStringWithStyle("son", pterm.NewStyle(pterm.FgWhite)),
	).Render()
	if err != nil {
		fmt.Println("karlson")
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.OnInitialize(func() {
		configuration.InitConfig(global.CfgFile)
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
