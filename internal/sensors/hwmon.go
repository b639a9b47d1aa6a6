package sensors

import (
	"github.com/markusressel/karlson/internal/ui"
	"github.com/markusressel/karlson/internal/util"
)

// HwmonSensor reads a sysfs temperature input, e.g. /sys/class/hwmon/hwmon1/temp1_input
type HwmonSensor struct {
	Input string `json:"input"`
	// Scale is the number of raw units per degree celsius
	Scale int `json:"scale"`
}

func NewHwmonSensor(input string, scale int) *HwmonSensor {
	return &HwmonSensor{
		Input: input,
		Scale: scale,
	}
}

func (sensor HwmonSensor) GetId() string {
	return sensor.Input
}

func (sensor HwmonSensor) Temperature() int {
	if sensor.Scale <= 0 {
		return 0
	}
	value, err := util.ReadIntFromFile(sensor.Input)
	if err != nil {
		ui.Debug("Unable to read temperature from %s: %v", sensor.Input, err)
		return 0
	}
	if value < 0 {
		return 0
	}
	return value / sensor.Scale
}
