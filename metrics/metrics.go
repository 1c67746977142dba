package metrics

import (
	"context"
	"fmt"
	"io"
	"time"

	vm "github.com/VictoriaMetrics/metrics"

	"github.com/safing/pqbase/modules"
)

var (
	module *modules.Module

	set = vm.NewSet()
)

func init() {
	module = modules.Register("metrics", prep, start, nil, "config")
}

func prep() error {
	return prepConfig()
}

func start() error {
	registerHostMetrics()
	registerInfoMetric()

	if pushURL := pushOption(); pushURL != "" {
		module.StartServiceWorker("metric pusher", 0, func(ctx context.Context) error {
			return pushWorker(ctx, pushURL)
		})
	}
	return nil
}

// RecordRoundTrip counts a finished round trip.
func RecordRoundTrip(kind, algorithm, status string) {
	set.GetOrCreateCounter(fmt.Sprintf(
		`pqbase_roundtrip_total{kind=%q,algorithm=%q,status=%q}`,
		kind, algorithm, status,
	)).Inc()
}

// ObserveStage records the duration of a round trip stage.
func ObserveStage(kind, algorithm, stage string, d time.Duration) {
	set.GetOrCreateHistogram(fmt.Sprintf(
		`pqbase_stage_seconds{kind=%q,algorithm=%q,stage=%q}`,
		kind, algorithm, stage,
	)).Update(d.Seconds())
}

// WritePrometheus writes all metrics in the prometheus text format.
// Process metrics are only included if requested.
func WritePrometheus(w io.Writer, withProcessMetrics bool) {
	set.WritePrometheus(w)
	if withProcessMetrics {
		vm.WriteProcessMetrics(w)
	}
}
