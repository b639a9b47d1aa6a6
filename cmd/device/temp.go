package device

import (
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var tempCmd = &cobra.Command{
	Use:   "temp",
	Short: "Get the current highest temperature reading of a device in degrees celsius",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		detected, err := getDevice()
		if err != nil {
			return err
		}

		temperature := detected.Descriptor.MaxTemperature()
		if temperature <= 0 {
			return errors.New("no temperature reading available")
		}

		fmt.Printf("%d", temperature)
		return nil
	},
}

func init() {
	Command.AddCommand(tempCmd)
}
