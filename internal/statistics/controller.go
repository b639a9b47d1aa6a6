package statistics

import (
	"time"

	"github.com/markusressel/karlson/internal/controller"
	"github.com/prometheus/client_golang/prometheus"
)

const controllerSubsystem = "controller"

// StatusSource provides the latest status of every controller
type StatusSource interface {
	Snapshot() []controller.Status
}

type ControllerCollector struct {
	source StatusSource
	now    func() time.Time

	level                  *prometheus.Desc
	targetLevel            *prometheus.Desc
	temperature            *prometheus.Desc
	windowMax              *prometheus.Desc
	windowAvg              *prometheus.Desc
	historySize            *prometheus.Desc
	actuator               *prometheus.Desc
	idle                   *prometheus.Desc
	critical               *prometheus.Desc
	cycles                 *prometheus.Desc
	transitions            *prometheus.Desc
	readFailures           *prometheus.Desc
	writeFailures          *prometheus.Desc
	secondsSinceLastChange *prometheus.Desc
}

func newControllerDesc(name string, help string) *prometheus.Desc {
	return prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, name),
		help,
		[]string{"device", "kind", "name"}, nil,
	)
}

func NewControllerCollector(source StatusSource) *ControllerCollector {
	return &ControllerCollector{
		source: source,
		now:    time.Now,

		level:                  newControllerDesc("level_percent", "Current fan level of the device"),
		targetLevel:            newControllerDesc("target_level_percent", "Fan level the controller normalizes towards"),
		temperature:            newControllerDesc("temperature_celsius", "Highest temperature reading of the last cycle"),
		windowMax:              newControllerDesc("window_max_celsius", "Highest temperature held in the sample history"),
		windowAvg:              newControllerDesc("window_avg_celsius", "Average temperature held in the sample history"),
		historySize:            newControllerDesc("history_samples", "Number of samples held in the sample history"),
		actuator:               newControllerDesc("actuator_resolved", "Whether a usable fan was resolved for the device"),
		idle:                   newControllerDesc("idle", "Whether the last cycle made no decision"),
		critical:               newControllerDesc("critical", "Whether the last cycle exceeded the critical temperature"),
		cycles:                 newControllerDesc("cycles_total", "Number of control cycles"),
		transitions:            newControllerDesc("transitions_total", "Number of successful fan level changes"),
		readFailures:           newControllerDesc("read_failures_total", "Number of cycles aborted because the fan level could not be read"),
		writeFailures:          newControllerDesc("write_failures_total", "Number of rejected fan level changes"),
		secondsSinceLastChange: newControllerDesc("seconds_since_last_change", "Time since the last fan level change"),
	}
}

func (collector *ControllerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.level
	ch <- collector.targetLevel
	ch <- collector.temperature
	ch <- collector.windowMax
	ch <- collector.windowAvg
	ch <- collector.historySize
	ch <- collector.actuator
	ch <- collector.idle
	ch <- collector.critical
	ch <- collector.cycles
	ch <- collector.transitions
	ch <- collector.readFailures
	ch <- collector.writeFailures
	ch <- collector.secondsSinceLastChange
}

// Collect implements required collect function for all prometheus collectors
func (collector *ControllerCollector) Collect(ch chan<- prometheus.Metric) {
	now := collector.now()
	for _, status := range collector.source.Snapshot() {
		labels := []string{status.Key, string(status.Kind), status.Name}

		gauge := func(desc *prometheus.Desc, value float64) {
			ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, value, labels...)
		}
		counter := func(desc *prometheus.Desc, value uint64) {
			ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(value), labels...)
		}

		gauge(collector.level, float64(status.Level))
		gauge(collector.targetLevel, float64(status.Policy.TargetLevel))
		gauge(collector.temperature, float64(status.InstantMax))
		gauge(collector.windowMax, float64(status.WindowMax))
		gauge(collector.windowAvg, status.WindowAvg)
		gauge(collector.historySize, float64(status.HistoryLen))
		gauge(collector.actuator, boolToFloat(status.HasActuator))
		gauge(collector.idle, boolToFloat(status.Idle))
		gauge(collector.critical, boolToFloat(status.Critical))
		counter(collector.cycles, status.Cycles)
		counter(collector.transitions, status.Transitions)
		counter(collector.readFailures, status.ReadFailures)
		counter(collector.writeFailures, status.WriteFailures)
		gauge(collector.secondsSinceLastChange, now.Sub(status.LastChange).Seconds())
	}
}

func boolToFloat(value bool) float64 {
	if value {
		return 1
	}
	return 0
}
