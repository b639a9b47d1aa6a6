package controller

import (
	"errors"

	"github.com/markusressel/karlson/internal/configuration"
	"github.com/markusressel/karlson/internal/device"
)

type MockReading struct {
	ID     string
	Values []int
	calls  int
}

func (r *MockReading) GetId() string {
	return r.ID
}

// Temperature returns the scripted values in order, repeating the last one
func (r *MockReading) Temperature() int {
	if len(r.Values) <= 0 {
		return 0
	}
	idx := r.calls
	if idx >= len(r.Values) {
		idx = len(r.Values) - 1
	}
	r.calls++
	return r.Values[idx]
}

type MockActuator struct {
	ID       string
	Level    int
	MinLevel int
	Writes   []int
	ReadErr  error
	WriteErr error
	// FailWrites rejects this many writes before WriteErr applies
	FailWrites int
}

func (a *MockActuator) GetId() string {
	return a.ID
}

func (a *MockActuator) CurrentLevel() (int, error) {
	if a.ReadErr != nil {
		return 0, a.ReadErr
	}
	return a.Level, nil
}

func (a *MockActuator) SetLevel(level int) (int, error) {
	if a.FailWrites > 0 {
		a.FailWrites--
		return 0, errMock
	}
	if a.WriteErr != nil {
		return 0, a.WriteErr
	}
	a.Writes = append(a.Writes, level)
	if level < a.MinLevel {
		level = a.MinLevel
	}
	a.Level = level
	return level, nil
}

func (a *MockActuator) Reconfigure(policy configuration.PolicyConfig) {
	a.MinLevel = policy.MinLevel
}

var errMock = errors.New("mock failure")

func createPolicy() *Policy {
	return &Policy{
		TargetLevel: 60,
		TempOk:      65,
		TempHot:     75,
		TempCrit:    80,
		StepUp:      5,
		StepDown:    2,
	}
}

func createDevice(actuator device.Actuator, readings ...device.Reading) device.Descriptor {
	return device.Descriptor{
		Id:       0,
		Kind:     device.KindHwmon,
		Name:     "hwmon0(mock)",
		Readings: readings,
		Actuator: actuator,
	}
}
