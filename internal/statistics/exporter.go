package statistics

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/markusressel/karlson/internal/ui"
	"github.com/natefinch/atomic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/expfmt"
)

const (
	namespace = "karlson"
)

// NewRegistry creates a registry containing the given collectors as well as
// the default go runtime and process collectors
func NewRegistry(cs ...prometheus.Collector) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
	)
	registry.MustRegister(cs...)
	return registry
}

// TextfileExporter periodically writes all metrics of a registry to a file
// in the prometheus text format, to be picked up by the node_exporter textfile collector.
type TextfileExporter struct {
	gatherer prometheus.Gatherer
	path     string
	interval time.Duration
}

func NewTextfileExporter(gatherer prometheus.Gatherer, path string, interval time.Duration) *TextfileExporter {
	return &TextfileExporter{
		gatherer: gatherer,
		path:     path,
		interval: interval,
	}
}

// Write gathers all metrics and atomically replaces the target file
func (e *TextfileExporter) Write() error {
	families, err := e.gatherer.Gather()
	if err != nil {
		return fmt.Errorf("cannot gather metrics: %w", err)
	}

	var buf bytes.Buffer
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, family); err != nil {
			return fmt.Errorf("cannot encode metric family %s: %w", family.GetName(), err)
		}
	}

	if err := atomic.WriteFile(e.path, &buf); err != nil {
		return fmt.Errorf("cannot write metrics to %s: %w", e.path, err)
	}
	return nil
}

// Run writes the metrics file once per interval until ctx is cancelled
func (e *TextfileExporter) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		if err := e.Write(); err != nil {
			ui.Warning("%v", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
