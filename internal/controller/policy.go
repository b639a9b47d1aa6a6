package controller

import (
	"fmt"

	"github.com/markusressel/karlson/internal/configuration"
)

// Policy holds the thresholds and step rates of a single controller.
// It is never modified by the controller.
type Policy struct {
	// TargetLevel is the fan level in percent the controller normalizes towards
	TargetLevel int

	TempOk   int
	TempHot  int
	TempCrit int

	StepUp   int
	StepDown int
}

func NewPolicy(config configuration.PolicyConfig) *Policy {
	return &Policy{
		TargetLevel: config.TargetLevel,
		TempOk:      config.TempOk,
		TempHot:     config.TempHot,
		TempCrit:    config.TempCrit,
		StepUp:      config.StepUp,
		StepDown:    config.StepDown,
	}
}

func (p Policy) String() string {
	return fmt.Sprintf("target: %d%%, ok: %dC, hot: %dC, crit: %dC, up: %d, down: %d",
		p.TargetLevel, p.TempOk, p.TempHot, p.TempCrit, p.StepUp, p.StepDown)
}

// Proximity is the position of a fan level relative to a band [target, target+band)
type Proximity int

const (
	Below  Proximity = -1
	Within Proximity = 0
	Above  Proximity = 1
)

func (p Proximity) String() string {
	switch p {
	case Below:
		return "below"
	case Within:
		return "within"
	default:
		return "above"
	}
}

// Near classifies level relative to the band [target, target+band)
func Near(level int, target int, band int) Proximity {
	if level < target {
		return Below
	} else if level < target+band {
		return Within
	}
	return Above
}
