package sensors

import (
	"github.com/markusressel/karlson/internal/device"
)

var (
	_ device.Reading = (*HwmonSensor)(nil)
	_ device.Reading = (*NvidiaSensor)(nil)
)
