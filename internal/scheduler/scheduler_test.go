package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/markusressel/karlson/internal/configuration"
	"github.com/markusressel/karlson/internal/controller"
	"github.com/markusressel/karlson/internal/device"
	"github.com/stretchr/testify/assert"
)

type mockReading struct {
	value int
}

func (r *mockReading) GetId() string    { return "mock" }
func (r *mockReading) Temperature() int { return r.value }

type mockActuator struct {
	level   int
	writes  []int
	readErr error
}

func (a *mockActuator) GetId() string { return "mock" }

func (a *mockActuator) CurrentLevel() (int, error) {
	return a.level, a.readErr
}

func (a *mockActuator) SetLevel(level int) (int, error) {
	a.writes = append(a.writes, level)
	a.level = level
	return level, nil
}

func (a *mockActuator) Reconfigure(policy configuration.PolicyConfig) {}

func createController(id int, actuator device.Actuator, reading device.Reading) *controller.Karlson {
	desc := device.Descriptor{
		Id:       id,
		Kind:     device.KindHwmon,
		Name:     "mock",
		Readings: []device.Reading{reading},
		Actuator: actuator,
	}
	policy := &controller.Policy{
		TargetLevel: 60,
		TempOk:      65,
		TempHot:     75,
		TempCrit:    80,
		StepUp:      5,
		StepDown:    2,
	}
	return controller.New(desc, policy, 15)
}

func TestScheduler_RunCycle(t *testing.T) {
	// GIVEN
	first := &mockActuator{level: 80}
	second := &mockActuator{level: 50}
	store := NewStatusStore()
	s := NewScheduler([]*controller.Karlson{
		createController(0, first, &mockReading{value: 50}),
		createController(1, second, &mockReading{value: 78}),
	}, time.Second, store)

	// WHEN
	s.RunCycle()

	// THEN
	assert.Equal(t, []int{78}, first.writes)
	assert.Equal(t, []int{80}, second.writes)

	status, ok := store.Get("hwmon#1")
	assert.True(t, ok)
	assert.Equal(t, 80, status.Level)
	assert.Equal(t, uint64(1), status.Cycles)
}

func TestScheduler_RunCycle_ErrorsDoNotStopCycle(t *testing.T) {
	// GIVEN
	broken := &mockActuator{level: 80, readErr: errors.New("gone")}
	healthy := &mockActuator{level: 50}
	store := NewStatusStore()
	s := NewScheduler([]*controller.Karlson{
		createController(0, broken, &mockReading{value: 50}),
		createController(1, nil, &mockReading{value: 50}),
		createController(2, healthy, &mockReading{value: 78}),
	}, time.Second, store)

	// WHEN
	s.RunCycle()

	// THEN
	assert.Empty(t, broken.writes)
	assert.Equal(t, []int{80}, healthy.writes)

	status, _ := store.Get("hwmon#0")
	assert.Equal(t, uint64(1), status.ReadFailures)
	status, _ = store.Get("hwmon#1")
	assert.True(t, status.Idle)
}

func TestScheduler_Run_StopsOnCancel(t *testing.T) {
	// GIVEN
	actuator := &mockActuator{level: 50}
	s := NewScheduler([]*controller.Karlson{
		createController(0, actuator, &mockReading{value: 78}),
	}, 10*time.Millisecond, NewStatusStore())
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// WHEN
	err := s.Run(ctx)

	// THEN
	assert.NoError(t, err)
	assert.NotEmpty(t, actuator.writes)
}

func TestScheduler_Run_EmptySet(t *testing.T) {
	// GIVEN
	s := NewScheduler(nil, 10*time.Millisecond, NewStatusStore())
	s.EmptyHint = "Enabled hwmon ids: []"
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// WHEN
	err := s.Run(ctx)

	// THEN
	assert.NoError(t, err)
}

func TestStatusStore_Snapshot(t *testing.T) {
	// GIVEN
	store := NewStatusStore()
	store.Set(controller.Status{Key: "nvidia#0"})
	store.Set(controller.Status{Key: "hwmon#2"})
	store.Set(controller.Status{Key: "hwmon#1", Level: 40})
	store.Set(controller.Status{Key: "hwmon#1", Level: 42})

	// WHEN
	result := store.Snapshot()

	// THEN
	assert.Len(t, result, 3)
	assert.Equal(t, "hwmon#1", result[0].Key)
	assert.Equal(t, 42, result[0].Level)
	assert.Equal(t, "hwmon#2", result[1].Key)
	assert.Equal(t, "nvidia#0", result[2].Key)
}

func TestScheduler_Reconfigure(t *testing.T) {
	// GIVEN
	actuator := &mockActuator{level: 62}
	k := createController(0, actuator, &mockReading{value: 70})
	s := NewScheduler([]*controller.Karlson{k}, time.Hour, NewStatusStore())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx)
		close(done)
	}()

	// WHEN
	queued := s.Reconfigure(func(desc device.Descriptor) (configuration.PolicyConfig, bool) {
		return configuration.PolicyConfig{
			TargetLevel: 80,
			TempOk:      65,
			TempHot:     75,
			TempCrit:    80,
			StepUp:      5,
			StepDown:    2,
		}, true
	})

	// THEN
	assert.True(t, queued)
	assert.Eventually(t, func() bool {
		status, _ := s.store.Get("hwmon#0")
		return status.Cycles >= 2
	}, time.Second, 5*time.Millisecond)
	cancel()
	<-done
	assert.Equal(t, 80, k.Policy().TargetLevel)
	assert.Equal(t, []int{67}, actuator.writes)
}
