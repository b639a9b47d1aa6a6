package controller

import (
	"time"

	"github.com/markusressel/karlson/internal/device"
)

// Status is a point-in-time copy of the state of a Karlson
type Status struct {
	Key         string
	Kind        device.Kind
	Id          int
	Name        string
	HasActuator bool

	Policy Policy

	Level      int
	LastChange time.Time

	InstantMax      int
	WindowMax       int
	WindowAvg       float64
	HistoryLen      int
	HistoryCapacity int

	Idle     bool
	Critical bool

	Cycles        uint64
	Transitions   uint64
	ReadFailures  uint64
	WriteFailures uint64
}

func (k *Karlson) Status() Status {
	return Status{
		Key:         k.device.Key(),
		Kind:        k.device.Kind,
		Id:          k.device.Id,
		Name:        k.device.Name,
		HasActuator: k.device.HasActuator(),

		Policy: *k.policy,

		Level:      k.level,
		LastChange: k.lastChange,

		InstantMax:      k.instantMax,
		WindowMax:       k.history.Max(),
		WindowAvg:       k.history.Avg(),
		HistoryLen:      k.history.Len(),
		HistoryCapacity: k.history.Capacity(),

		Idle:     k.idle,
		Critical: k.critical,

		Cycles:        k.cycles,
		Transitions:   k.transitions,
		ReadFailures:  k.readFailures,
		WriteFailures: k.writeFailures,
	}
}
