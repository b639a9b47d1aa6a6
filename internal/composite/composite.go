package composite

import (
	"fmt"

	"github.com/markusressel/karlson/internal/configuration"
	"github.com/markusressel/karlson/internal/device"
	"github.com/markusressel/karlson/internal/fans"
	"github.com/markusressel/karlson/internal/sensors"
	"github.com/markusressel/karlson/internal/ui"
	"github.com/markusressel/karlson/internal/util"
)

// Resolve builds a composite device from absolute temperature input paths, gpu temperatures
// and an absolute pwm output path. The id is the position of the device block in the configuration.
func Resolve(id int, policy configuration.PolicyConfig, scale int, pwmMax int, thermometer sensors.NvidiaThermometer) (device.Descriptor, error) {
	desc := device.Descriptor{
		Id:   id,
		Kind: device.KindComposite,
		Name: policy.Name,
	}
	if len(desc.Name) <= 0 {
		desc.Name = fmt.Sprintf("device %d", id)
	}

	for _, input := range policy.TempInputs {
		if !util.FileExists(input) {
			ui.Warning("%s: temperature input does not exist: %s", desc.Key(), input)
			continue
		}
		desc.Readings = append(desc.Readings, sensors.NewHwmonSensor(input, scale))
	}
	for _, gpu := range policy.NvidiaTempInputs {
		desc.Readings = append(desc.Readings, sensors.NewNvidiaSensor(gpu, thermometer))
	}

	if len(policy.PwmFile) <= 0 {
		return desc, fmt.Errorf("%w: %s: no pwm output configured", device.ErrResolutionFailure, desc.Key())
	}
	if !util.FileExists(policy.PwmFile) {
		return desc, fmt.Errorf("%w: %s: pwm output does not exist: '%s'", device.ErrResolutionFailure, desc.Key(), policy.PwmFile)
	}
	desc.Actuator = fans.NewHwmonFan(policy.PwmFile, pwmMax, policy)

	return desc, nil
}
