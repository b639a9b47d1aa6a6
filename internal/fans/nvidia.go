package fans

import (
	"fmt"

	"github.com/markusressel/karlson/internal/configuration"
	"github.com/markusressel/karlson/internal/device"
	"github.com/markusressel/karlson/internal/ui"
	"github.com/markusressel/karlson/internal/util"
)

// NvidiaFanControl reads and sets the fan speed of a gpu in percent
type NvidiaFanControl interface {
	QueryFanSpeed(gpu int) (int, error)
	SetFanSpeed(gpu int, level int) error
}

type NvidiaFan struct {
	Gpu      int `json:"gpu"`
	MinLevel int `json:"minLevel"`
	client   NvidiaFanControl
}

func NewNvidiaFan(gpu int, client NvidiaFanControl, policy configuration.PolicyConfig) *NvidiaFan {
	fan := &NvidiaFan{
		Gpu:    gpu,
		client: client,
	}
	fan.Reconfigure(policy)
	return fan
}

func (fan NvidiaFan) GetId() string {
	return fmt.Sprintf("fan:%d", fan.Gpu)
}

func (fan NvidiaFan) CurrentLevel() (int, error) {
	level, err := fan.client.QueryFanSpeed(fan.Gpu)
	if err != nil {
		return 0, fmt.Errorf("%w: gpu %d: %w", device.ErrReadFailure, fan.Gpu, err)
	}
	return level, nil
}

// SetLevel applies the level and returns the speed reported by the driver afterwards
func (fan *NvidiaFan) SetLevel(level int) (int, error) {
	value := util.Coerce(level, fan.MinLevel, device.MaxLevel)

	ui.Debug("Setting gpu %d fan to %d%% ...", fan.Gpu, value)
	err := fan.client.SetFanSpeed(fan.Gpu, value)
	if err != nil {
		return 0, fmt.Errorf("%w: gpu %d: %w", device.ErrWriteFailure, fan.Gpu, err)
	}
	return fan.CurrentLevel()
}

func (fan *NvidiaFan) Reconfigure(policy configuration.PolicyConfig) {
	fan.MinLevel = util.Coerce(policy.MinLevel, device.MinLevel, device.MaxLevel)
}
