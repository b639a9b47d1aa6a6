package nvidia

import (
	"errors"
	"strings"
	"testing"

	"github.com/markusressel/karlson/internal/configuration"
	"github.com/markusressel/karlson/internal/device"
	"github.com/stretchr/testify/assert"
)

const gpuList = `GPU 0: GeForce GTX 1070 (UUID: GPU-09b509f0-961c-189e-bf2e-a1fd2d999b49)
GPU 1: GeForce GTX 1060 3GB (UUID: GPU-51e5ba3b-3f42-d70b-075b-06b36565f091)
GPU 2: NVIDIA GeForce RTX 3060 Ti (UUID: GPU-920ff0df-2fb4-b27d-76e1-08d7e9bb4f0c)
`

// fakeTools records every invocation and answers with canned output, keyed by the joined arguments
type fakeTools struct {
	calls   []string
	answers map[string]string
	fail    map[string]error
}

func (f *fakeTools) run(executable string, args []string) (string, error) {
	call := executable + " " + strings.Join(args, " ")
	f.calls = append(f.calls, call)
	for prefix, err := range f.fail {
		if strings.HasPrefix(call, prefix) {
			return "", err
		}
	}
	return f.answers[call], nil
}

func createClient(tools *fakeTools) *Client {
	return NewClientWithRunner("nvidia-smi", "nvidia-settings", tools.run)
}

func TestParseGpuList(t *testing.T) {
	// WHEN
	result := parseGpuList(gpuList)

	// THEN
	assert.Equal(t, []Gpu{
		{Index: 0, Name: "GTX 1070"},
		{Index: 1, Name: "GTX 1060 3GB"},
		{Index: 2, Name: "NVIDIA GeForce RTX 3060 Ti"},
	}, result)
}

func TestParseGpuList_Empty(t *testing.T) {
	assert.Empty(t, parseGpuList("No devices were found"))
}

func TestClient_ListGpus_Failure(t *testing.T) {
	// GIVEN
	tools := &fakeTools{fail: map[string]error{"nvidia-smi": errors.New("not found")}}

	// WHEN
	_, err := createClient(tools).ListGpus()

	// THEN
	assert.Error(t, err)
}

func TestClient_QueryTemperature(t *testing.T) {
	// GIVEN
	tools := &fakeTools{answers: map[string]string{
		"nvidia-smi --query-gpu=temperature.gpu --format=csv,noheader -i 1": "64",
	}}

	// WHEN
	result, err := createClient(tools).QueryTemperature(1)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 64, result)
}

func TestClient_QueryFanSpeed(t *testing.T) {
	// GIVEN
	tools := &fakeTools{answers: map[string]string{
		"nvidia-smi --query-gpu=fan.speed --format=csv,noheader -i 0": "95 %",
	}}

	// WHEN
	result, err := createClient(tools).QueryFanSpeed(0)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 95, result)
}

func TestClient_QueryFanSpeed_Unparsable(t *testing.T) {
	// GIVEN
	tools := &fakeTools{answers: map[string]string{
		"nvidia-smi --query-gpu=fan.speed --format=csv,noheader -i 0": "[N/A]",
	}}

	// WHEN
	_, err := createClient(tools).QueryFanSpeed(0)

	// THEN
	assert.Error(t, err)
}

func TestClient_SetFanSpeed_EnablesControl(t *testing.T) {
	// GIVEN
	tools := &fakeTools{answers: map[string]string{
		"nvidia-settings -q [gpu:0]/GPUFanControlState": "  Attribute 'GPUFanControlState' (host:0[gpu:0]): 0.",
	}}

	// WHEN
	err := createClient(tools).SetFanSpeed(0, 70)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t,
		"nvidia-settings -a [gpu:0]/GPUFanControlState=1 -a [fan:0]/GPUTargetFanSpeed=70",
		tools.calls[len(tools.calls)-1],
	)
}

func TestClient_SetFanSpeed_ControlAlreadyEnabled(t *testing.T) {
	// GIVEN
	tools := &fakeTools{answers: map[string]string{
		"nvidia-settings -q [gpu:1]/GPUFanControlState": "  Attribute 'GPUFanControlState' (host:0[gpu:1]): 1.",
	}}

	// WHEN
	err := createClient(tools).SetFanSpeed(1, 40)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "nvidia-settings -a [fan:1]/GPUTargetFanSpeed=40", tools.calls[len(tools.calls)-1])
}

func TestClient_SetFanSpeed_Failure(t *testing.T) {
	// GIVEN
	tools := &fakeTools{fail: map[string]error{"nvidia-settings -a": errors.New("exit status 1")}}

	// WHEN
	err := createClient(tools).SetFanSpeed(0, 70)

	// THEN
	assert.Error(t, err)
}

func TestEnumerate(t *testing.T) {
	// GIVEN
	tools := &fakeTools{answers: map[string]string{
		"nvidia-smi --list-gpus": gpuList,
		"nvidia-smi --query-gpu=temperature.gpu --format=csv,noheader -i 2": "58",
		"nvidia-smi --query-gpu=fan.speed --format=csv,noheader -i 2":       "41 %",
	}}
	policy := func(gpu int) configuration.PolicyConfig {
		return configuration.PolicyConfig{MinLevel: 30}
	}

	// WHEN
	result, err := Enumerate(createClient(tools), policy)

	// THEN
	assert.NoError(t, err)
	assert.Len(t, result, 3)

	gpu := result[2]
	assert.Equal(t, "nvidia#2", gpu.Key())
	assert.Equal(t, device.KindNvidia, gpu.Kind)
	assert.True(t, gpu.HasActuator())
	assert.Equal(t, 58, gpu.Readings[0].Temperature())

	level, err := gpu.Actuator.CurrentLevel()
	assert.NoError(t, err)
	assert.Equal(t, 41, level)
}
