package controller

import (
	"github.com/asecurityteam/rolling"
	"github.com/markusressel/karlson/internal/util"
)

// History is a bounded FIFO of temperature samples.
// When full, every push discards the oldest sample.
type History struct {
	window   *rolling.PointPolicy
	capacity int
	// total number of pushed samples
	pushed int
}

func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{
		window:   util.CreateRollingWindow(capacity),
		capacity: capacity,
	}
}

func (h *History) Push(temperature int) {
	h.window.Append(float64(temperature))
	h.pushed++
}

func (h *History) Len() int {
	if h.pushed < h.capacity {
		return h.pushed
	}
	return h.capacity
}

func (h *History) Capacity() int {
	return h.capacity
}

// Max returns the highest temperature currently held, 0 if empty
func (h *History) Max() int {
	if h.Len() <= 0 {
		return 0
	}
	// unused buckets hold 0, which never exceeds a temperature reading
	return int(util.GetWindowMax(h.window))
}

// Values returns the held samples, most recent first
func (h *History) Values() []int {
	buckets := util.GetWindowValues(h.window)
	length := h.Len()
	result := make([]int, 0, length)
	for i := 0; i < length; i++ {
		idx := (h.pushed - 1 - i) % h.capacity
		result = append(result, int(buckets[idx]))
	}
	return result
}

// Avg returns the average of the held samples, 0 if empty
func (h *History) Avg() float64 {
	values := h.Values()
	floats := make([]float64, len(values))
	for i, v := range values {
		floats[i] = float64(v)
	}
	return util.Avg(floats)
}
