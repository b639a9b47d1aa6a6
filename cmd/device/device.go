package device

import (
	"github.com/markusressel/karlson/internal"
	"github.com/markusressel/karlson/internal/configuration"
	"github.com/markusressel/karlson/internal/device"
	"github.com/markusressel/karlson/internal/ui"
	"github.com/spf13/cobra"
)

var (
	deviceKind string
	deviceId   int
)

var Command = &cobra.Command{
	Use:              "device",
	Short:            "Device related commands",
	Long:             ``,
	TraverseChildren: true,
}

func init() {
	Command.PersistentFlags().StringVarP(
		&deviceKind,
		"kind", "k",
		string(configuration.DeviceTypeHwmon),
		"Device kind, one of: hwmon | nvidia | composite",
	)
	Command.PersistentFlags().IntVarP(
		&deviceId,
		"id", "i",
		-1,
		"Device id as shown by 'karlson list'",
	)
	_ = Command.MarkPersistentFlagRequired("id")
}

func getDevice() (internal.DetectedDevice, error) {
	path, err := configuration.ReadConfigFile()
	if err == nil {
		ui.Debug("Using configuration file at: %s", path)
	}
	configuration.LoadConfig()

	deviceType, err := configuration.ParseDeviceType(deviceKind)
	if err != nil {
		return internal.DetectedDevice{}, err
	}

	return internal.FindDevice(&configuration.CurrentConfig, device.Kind(deviceType), deviceId)
}
