package statistics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/markusressel/karlson/internal/controller"
	"github.com/markusressel/karlson/internal/device"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource []controller.Status

func (s staticSource) Snapshot() []controller.Status {
	return s
}

func createStatus() controller.Status {
	return controller.Status{
		Key:         "hwmon#1",
		Kind:        device.KindHwmon,
		Id:          1,
		Name:        "hwmon1(it8686)",
		HasActuator: true,
		Policy:      controller.Policy{TargetLevel: 60},
		Level:       74,
		LastChange:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		InstantMax:  45,
		WindowMax:   50,
		WindowAvg:   47.5,
		HistoryLen:  3,
		Transitions: 3,
		Cycles:      3,
	}
}

func TestControllerCollector_Count(t *testing.T) {
	// GIVEN
	second := createStatus()
	second.Key = "nvidia#0"
	second.Kind = device.KindNvidia
	collector := NewControllerCollector(staticSource{createStatus(), second})

	// WHEN
	count := testutil.CollectAndCount(collector)

	// THEN
	assert.Equal(t, 28, count)
}

func TestControllerCollector_Values(t *testing.T) {
	// GIVEN
	collector := NewControllerCollector(staticSource{createStatus()})
	collector.now = func() time.Time {
		return time.Date(2024, 1, 1, 0, 1, 0, 0, time.UTC)
	}

	expected := `
# HELP karlson_controller_level_percent Current fan level of the device
# TYPE karlson_controller_level_percent gauge
karlson_controller_level_percent{device="hwmon#1",kind="hwmon",name="hwmon1(it8686)"} 74
# HELP karlson_controller_seconds_since_last_change Time since the last fan level change
# TYPE karlson_controller_seconds_since_last_change gauge
karlson_controller_seconds_since_last_change{device="hwmon#1",kind="hwmon",name="hwmon1(it8686)"} 60
# HELP karlson_controller_transitions_total Number of successful fan level changes
# TYPE karlson_controller_transitions_total counter
karlson_controller_transitions_total{device="hwmon#1",kind="hwmon",name="hwmon1(it8686)"} 3
`

	// WHEN
	err := testutil.CollectAndCompare(collector, strings.NewReader(expected),
		"karlson_controller_level_percent",
		"karlson_controller_seconds_since_last_change",
		"karlson_controller_transitions_total",
	)

	// THEN
	assert.NoError(t, err)
}

func TestTextfileExporter_Write(t *testing.T) {
	// GIVEN
	registry := prometheus.NewRegistry()
	registry.MustRegister(NewControllerCollector(staticSource{createStatus()}))
	path := filepath.Join(t.TempDir(), "karlson.prom")
	exporter := NewTextfileExporter(registry, path, time.Second)

	// WHEN
	err := exporter.Write()

	// THEN
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `karlson_controller_level_percent{device="hwmon#1",kind="hwmon",name="hwmon1(it8686)"} 74`)
	assert.Contains(t, string(data), "# TYPE karlson_controller_cycles_total counter")
}

func TestTextfileExporter_Write_MissingDirectory(t *testing.T) {
	// GIVEN
	registry := NewRegistry(NewControllerCollector(staticSource{}))
	path := filepath.Join(t.TempDir(), "missing", "karlson.prom")
	exporter := NewTextfileExporter(registry, path, time.Second)

	// WHEN
	err := exporter.Write()

	// THEN
	assert.Error(t, err)
}
