package fans

import (
	"fmt"

	"github.com/markusressel/karlson/internal/configuration"
	"github.com/markusressel/karlson/internal/device"
	"github.com/markusressel/karlson/internal/ui"
	"github.com/markusressel/karlson/internal/util"
)

// HwmonFan drives a sysfs pwm output, e.g. /sys/class/hwmon/hwmon2/pwm1
type HwmonFan struct {
	Output string `json:"output"`
	// PwmMax is the raw value that corresponds to 100%
	PwmMax   int `json:"pwmMax"`
	MinLevel int `json:"minLevel"`
}

func NewHwmonFan(output string, pwmMax int, policy configuration.PolicyConfig) *HwmonFan {
	fan := &HwmonFan{
		Output: output,
		PwmMax: pwmMax,
	}
	fan.Reconfigure(policy)
	return fan
}

func (fan HwmonFan) GetId() string {
	return fan.Output
}

func (fan HwmonFan) CurrentLevel() (int, error) {
	raw, err := util.ReadIntFromFile(fan.Output)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", device.ErrReadFailure, fan.Output, err)
	}
	return util.ScaleRound(raw, fan.PwmMax, device.MaxLevel), nil
}

func (fan *HwmonFan) SetLevel(level int) (int, error) {
	value := util.Coerce(level, fan.MinLevel, device.MaxLevel)
	raw := util.ScaleRound(value, device.MaxLevel, fan.PwmMax)

	fan.ensureManualControl()

	ui.Debug("Setting %s to %d (%d%%) ...", fan.Output, raw, value)
	err := util.WriteIntToFile(raw, fan.Output)
	if err != nil {
		return 0, fmt.Errorf("%w: cannot write %d to %s: %w", device.ErrWriteFailure, raw, fan.Output, err)
	}
	return util.ScaleRound(raw, fan.PwmMax, device.MaxLevel), nil
}

func (fan *HwmonFan) Reconfigure(policy configuration.PolicyConfig) {
	fan.MinLevel = util.Coerce(policy.MinLevel, device.MinLevel, device.MaxLevel)
}

func (fan HwmonFan) enableFile() string {
	return fan.Output + "_enable"
}

// GetControlMode returns the current "pwm_enable" value of this fan
func (fan HwmonFan) GetControlMode() (ControlMode, error) {
	value, err := util.ReadIntFromFile(fan.enableFile())
	if err != nil {
		return ControlModeDisabled, err
	}
	return ControlMode(value), nil
}

// ensureManualControl switches the output to manual pwm control, if the driver exposes a mode switch
func (fan HwmonFan) ensureManualControl() {
	if !util.FileExists(fan.enableFile()) {
		return
	}
	mode, err := fan.GetControlMode()
	if err == nil && mode == ControlModePWM {
		return
	}
	err = util.WriteIntToFile(int(ControlModePWM), fan.enableFile())
	if err != nil {
		ui.Warning("Unable to enable manual pwm control on %s: %v", fan.Output, err)
	}
}
