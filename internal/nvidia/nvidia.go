package nvidia

import (
	"github.com/markusressel/karlson/internal/configuration"
	"github.com/markusressel/karlson/internal/device"
	"github.com/markusressel/karlson/internal/fans"
	"github.com/markusressel/karlson/internal/sensors"
)

// Enumerate lists all gpus, each with its core temperature as reading and its fan as actuator
func Enumerate(client *Client, policy func(gpu int) configuration.PolicyConfig) ([]device.Descriptor, error) {
	gpus, err := client.ListGpus()
	if err != nil {
		return nil, err
	}

	var result []device.Descriptor
	for _, gpu := range gpus {
		result = append(result, device.Descriptor{
			Id:       gpu.Index,
			Kind:     device.KindNvidia,
			Name:     gpu.Name,
			Readings: []device.Reading{sensors.NewNvidiaSensor(gpu.Index, client)},
			Actuator: fans.NewNvidiaFan(gpu.Index, client, policy(gpu.Index)),
		})
	}
	return result, nil
}
