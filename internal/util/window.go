package util

import "github.com/asecurityteam/rolling"

func CreateRollingWindow(size int) *rolling.PointPolicy {
	return rolling.NewPointPolicy(rolling.NewWindow(size))
}

// GetWindowMax returns the max value in the window
func GetWindowMax(window *rolling.PointPolicy) float64 {
	return window.Reduce(rolling.Max)
}

// GetWindowValues returns a copy of every bucket of the window, in storage order
func GetWindowValues(window *rolling.PointPolicy) []float64 {
	var values []float64
	window.Reduce(func(w rolling.Window) float64 {
		for _, bucket := range w {
			values = append(values, bucket...)
		}
		return 0
	})
	return values
}
