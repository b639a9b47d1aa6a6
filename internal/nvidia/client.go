package nvidia

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/markusressel/karlson/internal/configuration"
	"github.com/markusressel/karlson/internal/util"
)

var gpuPattern = regexp.MustCompile(`(?m)^\s*GPU\s+(?P<id>\d+):\s+(GeForce\s+)*(?P<name>.+\S+)\s*\(UUID:.+$`)

type Gpu struct {
	Index int
	Name  string
}

// Client talks to the gpu driver through the nvidia-smi and nvidia-settings tools
type Client struct {
	Smi      string
	Settings string
	run      util.CommandRunner
}

func NewClient(config configuration.NvidiaConfig) *Client {
	return NewClientWithRunner(config.Smi, config.Settings, util.NewCommandRunner(config.Timeout))
}

func NewClientWithRunner(smi string, settings string, run util.CommandRunner) *Client {
	return &Client{
		Smi:      smi,
		Settings: settings,
		run:      run,
	}
}

// ListGpus returns all gpus reported by "nvidia-smi --list-gpus"
func (c *Client) ListGpus() ([]Gpu, error) {
	out, err := c.run(c.Smi, []string{"--list-gpus"})
	if err != nil {
		return nil, fmt.Errorf("cannot execute %s: %w", c.Smi, err)
	}
	return parseGpuList(out), nil
}

func parseGpuList(out string) []Gpu {
	var result []Gpu
	idIdx := gpuPattern.SubexpIndex("id")
	nameIdx := gpuPattern.SubexpIndex("name")
	for _, match := range gpuPattern.FindAllStringSubmatch(out, -1) {
		index, err := strconv.Atoi(match[idIdx])
		if err != nil {
			continue
		}
		result = append(result, Gpu{
			Index: index,
			Name:  strings.TrimSpace(match[nameIdx]),
		})
	}
	return result
}

func (c *Client) query(gpu int, field string) (string, error) {
	return c.run(c.Smi, []string{
		fmt.Sprintf("--query-gpu=%s", field),
		"--format=csv,noheader",
		"-i", strconv.Itoa(gpu),
	})
}

// QueryTemperature returns the core temperature of the gpu in degrees celsius
func (c *Client) QueryTemperature(gpu int) (int, error) {
	out, err := c.query(gpu, "temperature.gpu")
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(out))
}

// QueryFanSpeed returns the fan speed of the gpu in percent, parsed from output like "95 %"
func (c *Client) QueryFanSpeed(gpu int) (int, error) {
	out, err := c.query(gpu, "fan.speed")
	if err != nil {
		return 0, err
	}
	value := strings.TrimSpace(strings.ReplaceAll(out, "%", ""))
	level, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("cannot parse fan speed of gpu %d: '%s'", gpu, out)
	}
	return level, nil
}

// FanControlEnabled indicates whether manual fan control (GPUFanControlState) is active
func (c *Client) FanControlEnabled(gpu int) bool {
	out, err := c.run(c.Settings, []string{"-q", fmt.Sprintf("[gpu:%d]/GPUFanControlState", gpu)})
	if err != nil {
		return false
	}
	return strings.Contains(out, fmt.Sprintf("[gpu:%d]): 1", gpu))
}

// SetFanSpeed sets the target fan speed of the gpu, enabling manual fan control first if necessary
func (c *Client) SetFanSpeed(gpu int, level int) error {
	var args []string
	if !c.FanControlEnabled(gpu) {
		args = append(args, "-a", fmt.Sprintf("[gpu:%d]/GPUFanControlState=1", gpu))
	}
	args = append(args, "-a", fmt.Sprintf("[fan:%d]/GPUTargetFanSpeed=%d", gpu, level))

	_, err := c.run(c.Settings, args)
	if err != nil {
		return fmt.Errorf("cannot change fan speed of gpu %d to %d: %w", gpu, level, err)
	}
	return nil
}
