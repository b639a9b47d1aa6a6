package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/markusressel/karlson/internal"
	"github.com/markusressel/karlson/internal/configuration"
	"github.com/markusressel/karlson/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"detect"},
	Short:   "List devices",
	Long:    `Detects all devices, resolves them using the current configuration and prints them as a list`,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		loadOptionalConfig()

		devices := internal.DetectDevices(&configuration.CurrentConfig)
		if len(devices) <= 0 {
			ui.Warning("No devices found")
			return
		}

		var rows [][]string
		for _, detected := range devices {
			desc := detected.Descriptor

			fanText := "N/A"
			levelText := "N/A"
			if desc.HasActuator() {
				fanText = desc.Actuator.GetId()
				level, err := desc.Actuator.CurrentLevel()
				if err == nil {
					levelText = fmt.Sprintf("%d%%", level)
				}
			}

			var inputs []string
			for _, reading := range desc.Readings {
				inputs = append(inputs, reading.GetId())
			}
			temperature := desc.MaxTemperature()
			temperatureText := "N/A"
			if temperature > 0 {
				temperatureText = fmt.Sprintf("%dC", temperature)
			}

			rows = append(rows, []string{
				desc.Key(), desc.Name, strconv.FormatBool(detected.Enabled),
				fanText, levelText, strings.Join(inputs, ", "), temperatureText,
			})
		}

		printTable(table.Table{
			Headers: []string{"Device", "Name", "Enabled", "Fan", "Level", "Inputs", "Temp"},
			Rows:    rows,
		})

		for _, detected := range devices {
			if detected.Err != nil {
				ui.Warning("%v", detected.Err)
			}
		}
	},
}

// loadOptionalConfig reads the configuration file if there is one, and falls back to the defaults otherwise
func loadOptionalConfig() {
	path, err := configuration.ReadConfigFile()
	if err != nil {
		ui.Debug("No configuration file loaded, using defaults: %v", err)
	} else {
		ui.Debug("Using configuration file at: %s", path)
	}
	configuration.LoadConfig()
}

func init() {
	rootCmd.AddCommand(listCmd)
}
