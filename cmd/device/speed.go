package device

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var speedCmd = &cobra.Command{
	Use:   "speed",
	Short: "Get/Set the current level of a device's fan in percent ([0..100])",
	Long:  ``,
	Args:  cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		detected, err := getDevice()
		if err != nil {
			return err
		}
		if detected.Err != nil {
			return detected.Err
		}
		actuator := detected.Descriptor.Actuator

		if len(args) > 0 {
			level, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			applied, err := actuator.SetLevel(level)
			if err != nil {
				return err
			}
			fmt.Printf("%d", applied)
			return nil
		}

		level, err := actuator.CurrentLevel()
		if err != nil {
			return err
		}
		fmt.Printf("%d", level)
		return nil
	},
}

func init() {
	Command.AddCommand(speedCmd)
}
