package controller

import (
	"errors"
	"fmt"
	"time"

	"github.com/markusressel/karlson/internal/configuration"
	"github.com/markusressel/karlson/internal/device"
	"github.com/markusressel/karlson/internal/ui"
	"github.com/markusressel/karlson/internal/util"
)

// now is replaced in tests
var now = time.Now

type Direction string

const (
	DirectionUp   Direction = "UP"
	DirectionDown Direction = "DOWN"
)

// Transition describes a successful level change
type Transition struct {
	Device      string
	Name        string
	Direction   Direction
	Previous    int
	Requested   int
	Level       int
	Temperature int
	Time        time.Time
}

// TransitionListener is notified after every successful level change.
// It is called synchronously from Advance.
type TransitionListener func(transition Transition)

// Karlson drives the fan of a single device towards the level demanded by its policy,
// based on the temperature readings of the same device.
//
// A Karlson is not safe for concurrent use, it is owned by exactly one scheduler.
type Karlson struct {
	device  device.Descriptor
	policy  *Policy
	history *History

	level      int
	lastChange time.Time

	instantMax int
	idle       bool
	critical   bool

	cycles        uint64
	transitions   uint64
	readFailures  uint64
	writeFailures uint64

	listener TransitionListener
}

// New creates a controller for the given device.
// The history holds windowSize samples per reading, and at least windowSize samples.
func New(dev device.Descriptor, policy *Policy, windowSize int) *Karlson {
	if windowSize < 1 {
		windowSize = 1
	}
	readings := len(dev.Readings)
	if readings < 1 {
		readings = 1
	}

	k := &Karlson{
		device:     dev,
		policy:     policy,
		history:    NewHistory(windowSize * readings),
		lastChange: now(),
		idle:       true,
	}

	if dev.Actuator != nil {
		level, err := dev.Actuator.CurrentLevel()
		if err != nil {
			ui.Warning("%s: cannot read initial fan level: %v", dev.Key(), err)
		} else {
			k.level = level
		}
	}

	return k
}

func (k *Karlson) Device() device.Descriptor {
	return k.device
}

func (k *Karlson) Policy() Policy {
	return *k.policy
}

func (k *Karlson) Level() int {
	return k.level
}

func (k *Karlson) LastChange() time.Time {
	return k.lastChange
}

func (k *Karlson) History() *History {
	return k.history
}

func (k *Karlson) SetTransitionListener(listener TransitionListener) {
	k.listener = listener
}

// Reconfigure replaces the policy and passes it on to the actuator.
// The history keeps its capacity.
func (k *Karlson) Reconfigure(policy configuration.PolicyConfig) {
	k.policy = NewPolicy(policy)
	if k.device.Actuator != nil {
		k.device.Actuator.Reconfigure(policy)
	}
}

// ApplyTarget moves the fan to the target level of the policy, independent of any temperature
func (k *Karlson) ApplyTarget() error {
	if k.device.Actuator == nil {
		return fmt.Errorf("%w: %s has no fan", device.ErrResolutionFailure, k.device.Key())
	}
	return k.apply(k.policy.TargetLevel, 0)
}

// Advance runs a single control cycle:
// refresh the current level, sample all readings, and apply the level the policy demands.
func (k *Karlson) Advance() error {
	k.cycles++

	actuator := k.device.Actuator
	if actuator == nil {
		k.idle = true
		return fmt.Errorf("%w: %s has no fan", device.ErrResolutionFailure, k.device.Key())
	}

	level, err := actuator.CurrentLevel()
	if err != nil {
		k.idle = true
		k.readFailures++
		return fmt.Errorf("%s: cannot read fan level: %w", k.device.Key(), classify(err, device.ErrReadFailure))
	}
	k.level = level

	instantMax := k.sample()
	k.instantMax = instantMax
	windowMax := k.history.Max()

	if instantMax <= 0 {
		k.idle = true
		k.critical = false
		return nil
	}
	k.idle = false

	p := k.policy
	ui.Debug("%s TEMP:%dC (%d..%d) PWM:%d%% (%d%%) :: %s",
		k.device.Key(), instantMax, p.TempOk, p.TempHot, k.level, p.TargetLevel, k.device.Name)
	k.critical = instantMax > p.TempCrit

	return k.decide(instantMax, windowMax)
}

// sample reads every temperature input once, pushes the values into the history
// and returns the highest positive value of this cycle
func (k *Karlson) sample() int {
	instantMax := 0
	for _, reading := range k.device.Readings {
		temperature := reading.Temperature()
		if temperature < 0 {
			temperature = 0
		}
		k.history.Push(temperature)
		if temperature > instantMax {
			instantMax = temperature
		}
	}
	return instantMax
}

// decide evaluates all zone checks against the level at the start of the cycle.
// Later checks override earlier ones. A failed write does not stop the remaining
// checks, the first failure is returned once all of them ran.
func (k *Karlson) decide(instantMax int, windowMax int) error {
	p := k.policy
	current := k.level
	near := Near(current, p.TargetLevel, p.StepUp)

	var result error
	set := func(requested int) {
		err := k.apply(requested, instantMax)
		if err == nil {
			return
		}
		if result == nil {
			result = err
		} else {
			ui.Error("%v", err)
		}
	}

	if instantMax <= p.TempOk {
		if p.TempOk-windowMax > 1 || near == Above {
			set(current - p.StepDown)
		}
	}

	if instantMax > p.TempOk && instantMax < p.TempHot {
		if near == Below {
			set(current + p.StepUp)
		}
		if near == Above && p.TempHot-windowMax > 1 {
			set(current - p.StepDown)
		}
	}

	if instantMax >= p.TempHot {
		target := current + 2*p.StepUp
		if near == Below {
			target = p.TargetLevel + 4*p.StepUp
		}
		set(target)
	}

	if instantMax > p.TempCrit {
		set(device.MaxLevel)
	}

	return result
}

// apply clamps the requested level and writes it, unless it equals the current level
func (k *Karlson) apply(requested int, temperature int) error {
	target := util.Coerce(requested, device.MinLevel, device.MaxLevel)
	if target == k.level {
		return nil
	}

	applied, err := k.device.Actuator.SetLevel(target)
	if err != nil {
		k.writeFailures++
		return fmt.Errorf("%s: cannot set fan level to %d%%: %w", k.device.Key(), target, classify(err, device.ErrWriteFailure))
	}

	if applied == k.level {
		// the backend held the fan at its floor or ceiling
		ui.Debug("%s PWM held at %d%% (requested %d%%)", k.device.Key(), applied, target)
		return nil
	}

	direction := DirectionUp
	if k.level > target {
		direction = DirectionDown
	}

	transition := Transition{
		Device:      k.device.Key(),
		Name:        k.device.Name,
		Direction:   direction,
		Previous:    k.level,
		Requested:   target,
		Level:       applied,
		Temperature: temperature,
		Time:        now(),
	}

	k.level = applied
	k.lastChange = transition.Time
	k.transitions++

	ui.Info("%s PWM %s to %d%% temp %dC -> %s", transition.Device, direction, applied, temperature, k.device.Name)

	if k.listener != nil {
		k.listener(transition)
	}
	return nil
}

func classify(err error, kind error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
