package hwmon

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/markusressel/karlson/internal/configuration"
	"github.com/markusressel/karlson/internal/device"
	"github.com/markusressel/karlson/internal/fans"
	"github.com/markusressel/karlson/internal/sensors"
	"github.com/markusressel/karlson/internal/ui"
	"github.com/markusressel/karlson/internal/util"
	"golang.org/x/exp/slices"
)

const (
	DefaultRoot = "/sys/class/hwmon"

	// UnknownName is used when a device does not expose a "name" file
	UnknownName = "?!?"
)

var idPattern = regexp.MustCompile(`hwmon(\d+)[/\s]*$`)

// Enumerate lists all hwmonN devices below root, sorted by id.
// The returned descriptors carry neither readings nor an actuator, see Resolve.
func Enumerate(root string) ([]device.Descriptor, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %s: %w", root, err)
	}

	var result []device.Descriptor
	for _, entry := range entries {
		dir := filepath.Join(root, entry.Name())
		id, ok := parseId(dir)
		if !ok {
			ui.Warning("Cannot find hwmon id in %s", dir)
			continue
		}

		result = append(result, device.Descriptor{
			Id:   id,
			Kind: device.KindHwmon,
			Name: computeName(dir),
		})
	}

	slices.SortFunc(result, func(a, b device.Descriptor) int {
		return a.Id - b.Id
	})

	return result, nil
}

func parseId(dir string) (int, bool) {
	match := idPattern.FindStringSubmatch(dir)
	if match == nil {
		return -1, false
	}
	id, err := strconv.Atoi(match[1])
	if err != nil {
		return -1, false
	}
	return id, true
}

// computeName returns the directory name followed by the driver name, e.g. "hwmon2(nct6775)"
func computeName(dir string) string {
	name := util.ReadStringFromFile(filepath.Join(dir, "name"), UnknownName)
	return fmt.Sprintf("%s(%s)", filepath.Base(dir), name)
}

// DeviceDir returns the directory of the hwmon device with the given id
func DeviceDir(root string, id int) string {
	return filepath.Join(root, fmt.Sprintf("hwmon%d", id))
}

func resolvePath(dir string, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dir, file)
}

// Resolve binds the temperature inputs and the pwm output of an enumerated device,
// as configured in the given policy.
// If the pwm output does not exist, the returned descriptor has no actuator and
// the error wraps device.ErrResolutionFailure.
func Resolve(desc device.Descriptor, policy configuration.PolicyConfig, root string, scale int, pwmMax int) (device.Descriptor, error) {
	dir := DeviceDir(root, desc.Id)

	desc.Readings = nil
	for _, input := range policy.TempInputs {
		path := resolvePath(dir, input)
		if !util.FileExists(path) {
			ui.Debug("%s: temperature input does not exist: %s", desc.Key(), path)
			continue
		}
		desc.Readings = append(desc.Readings, sensors.NewHwmonSensor(path, scale))
	}

	desc.Actuator = nil
	output := resolvePath(dir, policy.PwmFile)
	if len(policy.PwmFile) <= 0 || !util.FileExists(output) {
		return desc, fmt.Errorf("%w: %s: pwm output does not exist: %s", device.ErrResolutionFailure, desc.Key(), output)
	}
	desc.Actuator = fans.NewHwmonFan(output, pwmMax, policy)

	return desc, nil
}
