package configuration

import (
	"github.com/qdm12/reprint"
)

// PolicyConfig holds the calibration of a single device, including
// the backend specific file and input choices used to resolve it.
type PolicyConfig struct {
	Name string `json:"name"`

	// TargetLevel is the fan level (in percent) the controller normalizes towards
	TargetLevel int `json:"targetLevel"`
	// MinLevel is the floor (in percent) an actuator will never go below
	MinLevel int `json:"minLevel"`
	StepUp   int `json:"stepUp"`
	StepDown int `json:"stepDown"`

	TempOk   int `json:"tempOk"`
	TempHot  int `json:"tempHot"`
	TempCrit int `json:"tempCrit"`

	// WindowSize is the number of cycles kept in the sample history (per input)
	WindowSize int `json:"windowSize"`

	// PwmFile is the pwm file name inside the hwmon device directory,
	// or an absolute path for composite devices
	PwmFile string `json:"pwmFile"`
	// TempInputs are temperature input file names inside the hwmon device directory,
	// or absolute paths for composite devices
	TempInputs []string `json:"tempInputs"`
	// NvidiaTempInputs are gpu indices used as additional temperature inputs of composite devices
	NvidiaTempInputs []int `json:"nvidiaTempInputs"`

	// ApplyTargetOnStart writes TargetLevel once when the controller is created
	ApplyTargetOnStart bool `json:"applyTargetOnStart"`
}

// PolicyOverride is a partial PolicyConfig, only fields present in the
// configuration file are set.
type PolicyOverride struct {
	Name *string `json:"name"`

	TargetLevel *int `json:"targetLevel"`
	MinLevel    *int `json:"minLevel"`
	StepUp      *int `json:"stepUp"`
	StepDown    *int `json:"stepDown"`

	TempOk   *int `json:"tempOk"`
	TempHot  *int `json:"tempHot"`
	TempCrit *int `json:"tempCrit"`

	WindowSize *int `json:"windowSize"`

	PwmFile          *string  `json:"pwmFile"`
	TempInputs       []string `json:"tempInputs"`
	NvidiaTempInputs []int    `json:"nvidiaTempInputs"`

	ApplyTargetOnStart *bool `json:"applyTargetOnStart"`
}

// Apply returns a copy of base with every field present in the override replaced
func (o PolicyOverride) Apply(base PolicyConfig) PolicyConfig {
	result := reprint.This(base).(PolicyConfig)

	if o.Name != nil {
		result.Name = *o.Name
	}
	if o.TargetLevel != nil {
		result.TargetLevel = *o.TargetLevel
	}
	if o.MinLevel != nil {
		result.MinLevel = *o.MinLevel
	}
	if o.StepUp != nil {
		result.StepUp = *o.StepUp
	}
	if o.StepDown != nil {
		result.StepDown = *o.StepDown
	}
	if o.TempOk != nil {
		result.TempOk = *o.TempOk
	}
	if o.TempHot != nil {
		result.TempHot = *o.TempHot
	}
	if o.TempCrit != nil {
		result.TempCrit = *o.TempCrit
	}
	if o.WindowSize != nil {
		result.WindowSize = *o.WindowSize
	}
	if o.PwmFile != nil {
		result.PwmFile = *o.PwmFile
	}
	if o.TempInputs != nil {
		result.TempInputs = append([]string{}, o.TempInputs...)
	}
	if o.NvidiaTempInputs != nil {
		result.NvidiaTempInputs = append([]int{}, o.NvidiaTempInputs...)
	}
	if o.ApplyTargetOnStart != nil {
		result.ApplyTargetOnStart = *o.ApplyTargetOnStart
	}

	return result
}

// ResolvePolicy returns the policy for the enumerated device with the given type and id.
// If multiple override blocks list the same device, the last one wins.
func (c *Configuration) ResolvePolicy(deviceType DeviceType, id int) PolicyConfig {
	var override *PolicyOverride
	for i := range c.Propellers {
		propeller := &c.Propellers[i]
		if propeller.Type != deviceType {
			continue
		}
		for _, propellerId := range propeller.Ids {
			if propellerId == id {
				override = &propeller.PolicyOverride
			}
		}
	}

	if override == nil {
		return reprint.This(c.Defaults).(PolicyConfig)
	}
	return override.Apply(c.Defaults)
}

// ResolveCompositePolicy returns the policy of a composite device block.
// The pwm file and input defaults name hwmon relative files, so they are not inherited.
func (c *Configuration) ResolveCompositePolicy(device CompositeDeviceConfig) PolicyConfig {
	base := reprint.This(c.Defaults).(PolicyConfig)
	base.PwmFile = ""
	base.TempInputs = nil
	base.NvidiaTempInputs = nil
	return device.PolicyOverride.Apply(base)
}
