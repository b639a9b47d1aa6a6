package configuration

import (
	"errors"
	"fmt"

	"github.com/markusressel/karlson/internal/ui"
	"golang.org/x/exp/slices"
)

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	if config.Interval <= 0 {
		return fmt.Errorf("interval must be > 0, got %s", config.Interval)
	}
	if config.TempScale <= 0 {
		return fmt.Errorf("tempScale must be > 0, got %d", config.TempScale)
	}
	if config.PwmMax <= 0 {
		return fmt.Errorf("pwmMax must be > 0, got %d", config.PwmMax)
	}
	if config.Statistics.Enabled {
		if len(config.Statistics.Textfile) <= 0 {
			return errors.New("statistics: textfile path is missing")
		}
		if config.Statistics.Interval <= 0 {
			return fmt.Errorf("statistics: interval must be > 0, got %s", config.Statistics.Interval)
		}
	}

	err := validatePolicy("defaults", config.Defaults)
	if err != nil {
		return err
	}

	err = validatePropellers(config)
	if err != nil {
		return err
	}

	return validateDevices(config)
}

func validatePropellers(config *Configuration) error {
	for idx, propeller := range config.Propellers {
		name := fmt.Sprintf("propellers[%d]", idx)

		switch propeller.Type {
		case DeviceTypeHwmon, DeviceTypeNvidia:
		default:
			return fmt.Errorf("%s: unsupported type '%s', use one of: hwmon | nvidia", name, propeller.Type)
		}

		if len(propeller.Ids) <= 0 {
			ui.Warning("%s: no device ids given, this block has no effect", name)
		}
		for _, id := range propeller.Ids {
			if id < 0 {
				return fmt.Errorf("%s: invalid id %d, must be >= 0", name, id)
			}
			if !isEnabled(config, propeller.Type, id) {
				ui.Warning("%s: %s#%d is not enabled, this override is unused", name, propeller.Type, id)
			}
		}

		err := validatePolicy(name, propeller.PolicyOverride.Apply(config.Defaults))
		if err != nil {
			return err
		}
	}

	return nil
}

func validateDevices(config *Configuration) error {
	for idx, device := range config.Devices {
		name := fmt.Sprintf("devices[%d]", idx)

		if !device.HasTempInputs() {
			return fmt.Errorf("%s: temperature inputs are missing, use tempInputs and/or nvidiaTempInputs", name)
		}
		if device.PwmFile == nil || len(*device.PwmFile) <= 0 {
			ui.Warning("%s: pwmFile is missing, the device will not be controlled", name)
		}

		err := validatePolicy(name, config.ResolveCompositePolicy(device))
		if err != nil {
			return err
		}
	}

	return nil
}

func validatePolicy(name string, policy PolicyConfig) error {
	if policy.TargetLevel < 0 || policy.TargetLevel > 100 {
		return fmt.Errorf("%s: targetLevel must be within [0..100], got %d", name, policy.TargetLevel)
	}
	if policy.MinLevel < 0 || policy.MinLevel > 100 {
		return fmt.Errorf("%s: minLevel must be within [0..100], got %d", name, policy.MinLevel)
	}
	if policy.WindowSize < 1 {
		return fmt.Errorf("%s: windowSize must be >= 1, got %d", name, policy.WindowSize)
	}

	// the controller handles any ordering, but the hot zone dominates when it is violated
	if !(policy.TempOk < policy.TempHot && policy.TempHot < policy.TempCrit) {
		ui.Warning("%s: expected tempOk < tempHot < tempCrit, got %d, %d, %d",
			name, policy.TempOk, policy.TempHot, policy.TempCrit)
	}
	if policy.StepUp < 0 || policy.StepDown < 0 {
		ui.Warning("%s: negative step rates invert the control direction (stepUp: %d, stepDown: %d)",
			name, policy.StepUp, policy.StepDown)
	}
	if policy.MinLevel > policy.TargetLevel {
		ui.Warning("%s: minLevel %d is above targetLevel %d", name, policy.MinLevel, policy.TargetLevel)
	}

	return nil
}

func isEnabled(config *Configuration, deviceType DeviceType, id int) bool {
	switch deviceType {
	case DeviceTypeHwmon:
		return slices.Contains(config.Hwmon.Enabled, id)
	case DeviceTypeNvidia:
		return slices.Contains(config.Nvidia.Enabled, id)
	}
	return false
}
