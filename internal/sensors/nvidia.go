package sensors

import (
	"fmt"

	"github.com/markusressel/karlson/internal/ui"
)

// NvidiaThermometer queries the core temperature of a gpu in degrees celsius
type NvidiaThermometer interface {
	QueryTemperature(gpu int) (int, error)
}

type NvidiaSensor struct {
	Gpu    int `json:"gpu"`
	client NvidiaThermometer
}

func NewNvidiaSensor(gpu int, client NvidiaThermometer) *NvidiaSensor {
	return &NvidiaSensor{
		Gpu:    gpu,
		client: client,
	}
}

func (sensor NvidiaSensor) GetId() string {
	return fmt.Sprintf("gpu:%d", sensor.Gpu)
}

func (sensor NvidiaSensor) Temperature() int {
	value, err := sensor.client.QueryTemperature(sensor.Gpu)
	if err != nil {
		ui.Debug("Unable to read temperature of gpu %d: %v", sensor.Gpu, err)
		return 0
	}
	if value < 0 {
		return 0
	}
	return value
}
