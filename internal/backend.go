package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/markusressel/karlson/internal/composite"
	"github.com/markusressel/karlson/internal/configuration"
	"github.com/markusressel/karlson/internal/controller"
	"github.com/markusressel/karlson/internal/device"
	"github.com/markusressel/karlson/internal/hwmon"
	"github.com/markusressel/karlson/internal/nvidia"
	"github.com/markusressel/karlson/internal/scheduler"
	"github.com/markusressel/karlson/internal/statistics"
	"github.com/markusressel/karlson/internal/ui"
	"github.com/oklog/run"
	"golang.org/x/exp/slices"
)

// DetectedDevice is an enumerated or configured device, resolved with its policy
type DetectedDevice struct {
	Descriptor device.Descriptor
	Policy     configuration.PolicyConfig
	// Enabled indicates whether the configuration selects this device for control
	Enabled bool
	// Err is set if the device could not be fully resolved
	Err error
}

// DetectDevices enumerates all hwmon and nvidia devices and builds all composite devices of the configuration.
func DetectDevices(config *configuration.Configuration) []DetectedDevice {
	var result []DetectedDevice
	result = append(result, detectHwmonDevices(config)...)
	result = append(result, detectNvidiaDevices(config)...)
	result = append(result, detectCompositeDevices(config)...)
	return result
}

func detectHwmonDevices(config *configuration.Configuration) []DetectedDevice {
	descriptors, err := hwmon.Enumerate(config.SensorRoot)
	if err != nil {
		ui.Error("%v", err)
		return nil
	}

	var result []DetectedDevice
	for _, desc := range descriptors {
		policy := config.ResolvePolicy(configuration.DeviceTypeHwmon, desc.Id)
		resolved, err := hwmon.Resolve(desc, policy, config.SensorRoot, config.TempScale, config.PwmMax)
		result = append(result, DetectedDevice{
			Descriptor: resolved,
			Policy:     policy,
			Enabled:    slices.Contains(config.Hwmon.Enabled, desc.Id),
			Err:        err,
		})
	}
	return result
}

func detectNvidiaDevices(config *configuration.Configuration) []DetectedDevice {
	client := nvidia.NewClient(config.Nvidia)
	policy := func(gpu int) configuration.PolicyConfig {
		return config.ResolvePolicy(configuration.DeviceTypeNvidia, gpu)
	}

	descriptors, err := nvidia.Enumerate(client, policy)
	if err != nil {
		if len(config.Nvidia.Enabled) > 0 {
			ui.Error("Cannot enumerate nvidia devices: %v", err)
		} else {
			ui.Debug("Cannot enumerate nvidia devices: %v", err)
		}
		return nil
	}

	var result []DetectedDevice
	for _, desc := range descriptors {
		result = append(result, DetectedDevice{
			Descriptor: desc,
			Policy:     policy(desc.Id),
			Enabled:    slices.Contains(config.Nvidia.Enabled, desc.Id),
		})
	}
	return result
}

func detectCompositeDevices(config *configuration.Configuration) []DetectedDevice {
	client := nvidia.NewClient(config.Nvidia)

	var result []DetectedDevice
	for idx, deviceConfig := range config.Devices {
		policy := config.ResolveCompositePolicy(deviceConfig)
		desc, err := composite.Resolve(idx, policy, config.TempScale, config.PwmMax, client)
		result = append(result, DetectedDevice{
			Descriptor: desc,
			Policy:     policy,
			Enabled:    true,
			Err:        err,
		})
	}
	return result
}

// FindDevice returns the detected device with the given kind and id
func FindDevice(config *configuration.Configuration, kind device.Kind, id int) (DetectedDevice, error) {
	var candidates []DetectedDevice
	switch kind {
	case device.KindHwmon:
		candidates = detectHwmonDevices(config)
	case device.KindNvidia:
		candidates = detectNvidiaDevices(config)
	case device.KindComposite:
		candidates = detectCompositeDevices(config)
	}

	for _, candidate := range candidates {
		if candidate.Descriptor.Id == id {
			return candidate, nil
		}
	}

	return DetectedDevice{}, fmt.Errorf("no such device: %s#%d, available: %s", kind, id, formatIds(candidates))
}

// InitializeControllers creates a controller for every enabled device.
// Devices without a usable actuator are kept and logged.
func InitializeControllers(devices []DetectedDevice) []*controller.Karlson {
	var result []*controller.Karlson
	for _, detected := range devices {
		if !detected.Enabled {
			continue
		}

		desc := detected.Descriptor
		if detected.Err != nil {
			ui.Warning("%v", detected.Err)
		}
		if len(desc.Readings) <= 0 {
			ui.Warning("%s: no usable temperature inputs", desc.Key())
		}

		k := controller.New(desc, controller.NewPolicy(detected.Policy), detected.Policy.WindowSize)
		if detected.Policy.ApplyTargetOnStart && desc.HasActuator() {
			if err := k.ApplyTarget(); err != nil {
				ui.Warning("Unable to apply target level to %s: %v", desc.Key(), err)
			}
		}

		ui.Info("Controlling %s (%s)", desc, k.Policy())
		result = append(result, k)
	}
	return result
}

func formatIds(devices []DetectedDevice) string {
	if len(devices) <= 0 {
		return "none"
	}
	var ids []string
	for _, d := range devices {
		ids = append(ids, strconv.Itoa(d.Descriptor.Id))
	}
	return strings.Join(ids, ", ")
}

// emptyHint lists the ids that could be enabled in the configuration
func emptyHint(devices []DetectedDevice) string {
	var hwmonDevices, nvidiaDevices []DetectedDevice
	for _, d := range devices {
		switch d.Descriptor.Kind {
		case device.KindHwmon:
			hwmonDevices = append(hwmonDevices, d)
		case device.KindNvidia:
			nvidiaDevices = append(nvidiaDevices, d)
		}
	}
	return fmt.Sprintf("Allowed hwmon.enabled ids: %s, allowed nvidia.enabled ids: %s",
		formatIds(hwmonDevices), formatIds(nvidiaDevices))
}

// reconfigureLookup resolves the policy of every device from a freshly loaded configuration
func reconfigureLookup(config configuration.Configuration) scheduler.PolicyLookup {
	return func(desc device.Descriptor) (configuration.PolicyConfig, bool) {
		switch desc.Kind {
		case device.KindHwmon:
			return config.ResolvePolicy(configuration.DeviceTypeHwmon, desc.Id), true
		case device.KindNvidia:
			return config.ResolvePolicy(configuration.DeviceTypeNvidia, desc.Id), true
		case device.KindComposite:
			if desc.Id < len(config.Devices) {
				return config.ResolveCompositePolicy(config.Devices[desc.Id]), true
			}
		}
		return configuration.PolicyConfig{}, false
	}
}

func RunDaemon() {
	if getProcessOwner() != "root" {
		ui.Fatal("Fan control requires root permissions to be able to modify fan speeds, please run karlson as root")
	}

	config := configuration.CurrentConfig
	devices := DetectDevices(&config)
	controllers := InitializeControllers(devices)

	store := scheduler.NewStatusStore()
	s := scheduler.NewScheduler(controllers, config.Interval, store)
	s.EmptyHint = emptyHint(devices)

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		if config.Statistics.Enabled {
			// === Prometheus textfile
			registry := statistics.NewRegistry(statistics.NewControllerCollector(store))
			exporter := statistics.NewTextfileExporter(registry, config.Statistics.Textfile, config.Statistics.Interval)

			g.Add(func() error {
				ui.Info("Writing statistics to %s", config.Statistics.Textfile)
				return exporter.Run(ctx)
			}, func(err error) {
				if err != nil {
					ui.Warning("Error writing statistics: %v", err)
				}
			})
		}
	}
	{
		// === control loop
		g.Add(func() error {
			err := s.Run(ctx)
			ui.Info("Control loop stopped.")
			return err
		}, func(err error) {
			if err != nil {
				ui.Warning("Something went wrong: %v", err)
			}
		})
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

		g.Add(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case received := <-sig:
					if received != syscall.SIGHUP {
						ui.Info("Received %s signal, exiting...", received)
						return nil
					}
					reload(s)
				}
			}
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil && !errors.Is(err, context.Canceled) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
		os.Exit(0)
	}
}

// reload re-reads the configuration file and hands the new policies to the scheduler
func reload(s *scheduler.Scheduler) {
	ui.Info("Reloading configuration...")
	config, err := configuration.ReloadConfig()
	if err != nil {
		ui.ErrorAndNotify("Config Reload Error", "Keeping current configuration: %v", err)
		return
	}
	if !s.Reconfigure(reconfigureLookup(config)) {
		ui.Warning("A configuration reload is already pending")
	}
}

func getProcessOwner() string {
	stdout, err := exec.Command("ps", "-o", "user=", "-p", strconv.Itoa(os.Getpid())).Output()
	if err != nil {
		ui.Fatal("Error checking process owner: %v", err)
		os.Exit(1)
	}
	return strings.TrimSpace(string(stdout))
}
