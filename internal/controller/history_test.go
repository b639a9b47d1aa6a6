package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory_Empty(t *testing.T) {
	// GIVEN
	history := NewHistory(5)

	// THEN
	assert.Equal(t, 0, history.Len())
	assert.Equal(t, 5, history.Capacity())
	assert.Equal(t, 0, history.Max())
	assert.Equal(t, 0.0, history.Avg())
	assert.Empty(t, history.Values())
}

func TestHistory_InvalidCapacity(t *testing.T) {
	// GIVEN
	history := NewHistory(0)

	// WHEN
	history.Push(40)
	history.Push(50)

	// THEN
	assert.Equal(t, 1, history.Capacity())
	assert.Equal(t, []int{50}, history.Values())
}

func TestHistory_PartiallyFilled(t *testing.T) {
	// GIVEN
	history := NewHistory(4)

	// WHEN
	history.Push(40)
	history.Push(55)

	// THEN
	assert.Equal(t, 2, history.Len())
	assert.Equal(t, 55, history.Max())
	assert.Equal(t, []int{55, 40}, history.Values())
	assert.Equal(t, 47.5, history.Avg())
}

func TestHistory_EvictsOldest(t *testing.T) {
	// GIVEN
	history := NewHistory(3)

	// WHEN
	for _, temperature := range []int{90, 40, 41, 42, 43} {
		history.Push(temperature)
	}

	// THEN
	assert.Equal(t, 3, history.Len())
	assert.Equal(t, []int{43, 42, 41}, history.Values())
	assert.Equal(t, 43, history.Max())
}

func TestHistory_KeepsZeroSamples(t *testing.T) {
	// GIVEN
	history := NewHistory(3)

	// WHEN
	history.Push(0)
	history.Push(0)

	// THEN
	assert.Equal(t, 2, history.Len())
	assert.Equal(t, 0, history.Max())
}

func TestNear(t *testing.T) {
	assert.Equal(t, Below, Near(59, 60, 5))
	assert.Equal(t, Within, Near(60, 60, 5))
	assert.Equal(t, Within, Near(64, 60, 5))
	assert.Equal(t, Above, Near(65, 60, 5))
	// an empty band has no inside
	assert.Equal(t, Above, Near(60, 60, 0))
}
