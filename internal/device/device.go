package device

import (
	"errors"
	"fmt"

	"github.com/markusressel/karlson/internal/configuration"
	"github.com/markusressel/karlson/internal/util"
)

var (
	// ErrReadFailure indicates that a sensor or actuator value could not be read or parsed
	ErrReadFailure = errors.New("read failure")
	// ErrWriteFailure indicates that an actuator rejected a new level
	ErrWriteFailure = errors.New("write failure")
	// ErrResolutionFailure indicates that a backend could not be constructed for a device
	ErrResolutionFailure = errors.New("resolution failure")
)

const (
	MinLevel = 0
	MaxLevel = 100
)

type Kind string

const (
	// KindHwmon is a device on the primary bus, exposed via the hwmon sysfs tree
	KindHwmon = Kind(configuration.DeviceTypeHwmon)
	// KindNvidia is an accelerator controlled by the vendor command line tools
	KindNvidia = Kind(configuration.DeviceTypeNvidia)
	// KindComposite is a device assembled from arbitrary inputs and an actuator
	KindComposite = Kind(configuration.DeviceTypeComposite)
)

// Reading is a temperature sensor.
type Reading interface {
	GetId() string

	// Temperature returns the current temperature in degrees celsius.
	// A value of 0 means that no value could be obtained.
	Temperature() int
}

// Actuator is a fan whose level is expressed in percent [0..100].
type Actuator interface {
	GetId() string

	// CurrentLevel returns the level the fan is currently running at
	CurrentLevel() (int, error)

	// SetLevel requests a new level and returns the level that was actually applied,
	// which may differ from the requested one due to backend limits.
	SetLevel(level int) (int, error)

	// Reconfigure applies policy changes (like the minimum level) to the backend
	Reconfigure(policy configuration.PolicyConfig)
}

// Descriptor bundles the readings and the actuator of a single device.
type Descriptor struct {
	Id       int
	Kind     Kind
	Name     string
	Readings []Reading
	// Actuator is nil if it could not be resolved
	Actuator Actuator
}

// Key returns the stable identity of this device, e.g. "hwmon#2"
func (d Descriptor) Key() string {
	return fmt.Sprintf("%s#%d", d.Kind, d.Id)
}

func (d Descriptor) String() string {
	if len(d.Name) <= 0 {
		return d.Key()
	}
	return fmt.Sprintf("%s %s", d.Key(), d.Name)
}

// HasActuator indicates whether a usable actuator was resolved for this device
func (d Descriptor) HasActuator() bool {
	return d.Actuator != nil
}

// MaxTemperature reads every temperature input once and returns the highest value, 0 if there is none
func (d Descriptor) MaxTemperature() int {
	values := make([]int, 0, len(d.Readings))
	for _, reading := range d.Readings {
		values = append(values, reading.Temperature())
	}
	return max(util.Max(values), 0)
}
