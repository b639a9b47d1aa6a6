package simulation

import (
	"testing"

	"github.com/markusressel/karlson/internal/configuration"
	"github.com/markusressel/karlson/internal/controller"
	"github.com/stretchr/testify/assert"
)

func createPolicy() configuration.PolicyConfig {
	return configuration.PolicyConfig{
		TargetLevel: 60,
		TempOk:      65,
		TempHot:     75,
		TempCrit:    80,
		StepUp:      5,
		StepDown:    2,
		WindowSize:  15,
	}
}

func TestRun_CoolingDown(t *testing.T) {
	// WHEN
	steps := Run(createPolicy(), 80, []int{50, 48, 45})

	// THEN
	assert.Len(t, steps, 3)
	assert.Equal(t, 78, steps[0].Level)
	assert.Equal(t, controller.DirectionDown, steps[0].Direction)
	assert.Equal(t, 76, steps[1].Level)
	assert.Equal(t, 74, steps[2].Level)
	assert.Equal(t, 50, steps[2].WindowMax)
	assert.Equal(t, 45, steps[2].Temperature)
}

func TestRun_HeatingUp(t *testing.T) {
	// WHEN
	steps := Run(createPolicy(), 50, []int{78, 90, 0})

	// THEN
	assert.Equal(t, 80, steps[0].Level)
	assert.Equal(t, controller.DirectionUp, steps[0].Direction)
	assert.Equal(t, 100, steps[1].Level)
	assert.True(t, steps[1].Critical)
	assert.Equal(t, 100, steps[2].Level)
	assert.Empty(t, steps[2].Direction)
}

func TestRun_MinLevel(t *testing.T) {
	// GIVEN
	policy := createPolicy()
	policy.MinLevel = 70

	// WHEN
	steps := Run(policy, 72, []int{40, 40, 40})

	// THEN
	assert.Equal(t, 70, steps[0].Level)
	assert.Equal(t, 70, steps[2].Level)
}

func TestScriptedReading(t *testing.T) {
	// GIVEN
	reading := &ScriptedReading{Values: []int{1, 2}}

	// THEN
	assert.Equal(t, 1, reading.Temperature())
	assert.Equal(t, 2, reading.Temperature())
	assert.Equal(t, 2, reading.Temperature())
	assert.Equal(t, 0, (&ScriptedReading{}).Temperature())
}
