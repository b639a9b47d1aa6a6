package configuration

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

type DeviceType string

const (
	DeviceTypeHwmon     DeviceType = "hwmon"
	DeviceTypeNvidia    DeviceType = "nvidia"
	DeviceTypeComposite DeviceType = "composite"
)

var deviceTypeAliases = map[string]DeviceType{
	"hwmon":     DeviceTypeHwmon,
	"sys":       DeviceTypeHwmon,
	"nvidia":    DeviceTypeNvidia,
	"nv":        DeviceTypeNvidia,
	"composite": DeviceTypeComposite,
	"dev":       DeviceTypeComposite,
}

// ParseDeviceType accepts the canonical device type names as well as their short aliases
func ParseDeviceType(value string) (DeviceType, error) {
	deviceType, ok := deviceTypeAliases[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return "", fmt.Errorf("unknown device type '%s', use one of: hwmon | nvidia | composite", value)
	}
	return deviceType, nil
}

// PropellerConfig overrides the default policy for a set of enumerated devices
type PropellerConfig struct {
	Type DeviceType `json:"type"`
	Ids  []int      `json:"ids"`

	PolicyOverride `mapstructure:",squash"`
}

// CompositeDeviceConfig describes a device assembled from arbitrary inputs and a pwm file
type CompositeDeviceConfig struct {
	PolicyOverride `mapstructure:",squash"`
}

// HasTempInputs indicates whether at least one temperature input is configured
func (d CompositeDeviceConfig) HasTempInputs() bool {
	return len(d.TempInputs) > 0 || len(d.NvidiaTempInputs) > 0
}

// DeviceTypeHookFunc returns a mapstructure decode hook that resolves device type aliases.
// An empty value decodes to DeviceTypeHwmon.
func DeviceTypeHookFunc() mapstructure.DecodeHookFuncType {
	deviceTypeType := reflect.TypeOf(DeviceType(""))

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != deviceTypeType {
			return data, nil
		}

		value, ok := data.(string)
		if !ok {
			return data, nil
		}
		if len(strings.TrimSpace(value)) <= 0 {
			return DeviceTypeHwmon, nil
		}
		return ParseDeviceType(value)
	}
}
