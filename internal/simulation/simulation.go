package simulation

import (
	"github.com/markusressel/karlson/internal/configuration"
	"github.com/markusressel/karlson/internal/controller"
	"github.com/markusressel/karlson/internal/device"
	"github.com/markusressel/karlson/internal/util"
)

// ScriptedReading replays a fixed temperature sequence, repeating the last value once exhausted
type ScriptedReading struct {
	Values []int
	next   int
}

func (r *ScriptedReading) GetId() string {
	return "scripted"
}

func (r *ScriptedReading) Temperature() int {
	if len(r.Values) <= 0 {
		return 0
	}
	idx := util.Coerce(r.next, 0, len(r.Values)-1)
	r.next++
	return r.Values[idx]
}

// VirtualFan is an in-memory actuator
type VirtualFan struct {
	Level    int
	MinLevel int
	Writes   int
}

func (f *VirtualFan) GetId() string {
	return "virtual"
}

func (f *VirtualFan) CurrentLevel() (int, error) {
	return f.Level, nil
}

func (f *VirtualFan) SetLevel(level int) (int, error) {
	f.Writes++
	f.Level = util.Coerce(level, f.MinLevel, device.MaxLevel)
	return f.Level, nil
}

func (f *VirtualFan) Reconfigure(policy configuration.PolicyConfig) {
	f.MinLevel = util.Coerce(policy.MinLevel, device.MinLevel, device.MaxLevel)
}

// Step is the outcome of a single simulated cycle
type Step struct {
	Cycle       int
	Temperature int
	WindowMax   int
	Level       int
	// Direction is empty if the level did not change
	Direction controller.Direction
	Critical  bool
}

// Run drives a controller with the given policy through the temperature sequence, one cycle per value
func Run(policy configuration.PolicyConfig, startLevel int, temperatures []int) []Step {
	fan := &VirtualFan{Level: util.Coerce(startLevel, device.MinLevel, device.MaxLevel)}
	fan.Reconfigure(policy)

	desc := device.Descriptor{
		Kind:     device.KindComposite,
		Name:     "simulation",
		Readings: []device.Reading{&ScriptedReading{Values: temperatures}},
		Actuator: fan,
	}
	k := controller.New(desc, controller.NewPolicy(policy), policy.WindowSize)

	var direction controller.Direction
	k.SetTransitionListener(func(transition controller.Transition) {
		direction = transition.Direction
	})

	steps := make([]Step, 0, len(temperatures))
	for i := range temperatures {
		direction = ""
		// a virtual fan never fails
		_ = k.Advance()

		status := k.Status()
		steps = append(steps, Step{
			Cycle:       i + 1,
			Temperature: status.InstantMax,
			WindowMax:   status.WindowMax,
			Level:       status.Level,
			Direction:   direction,
			Critical:    status.Critical,
		})
	}
	return steps
}
