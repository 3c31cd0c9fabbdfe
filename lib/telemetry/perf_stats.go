package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

const perfStatsInterval = time.Second * 30

var perfMeter = otel.Meter("hiscores.process")
var perfCpuGauge, _ = perfMeter.Float64Gauge("cpu_percent")
var perfHeapGauge, _ = perfMeter.Int64Gauge("heap_alloc_mb")
var perfObjectsGauge, _ = perfMeter.Int64Gauge("heap_live_objects")
var perfGoroutineGauge, _ = perfMeter.Int64Gauge("goroutines")

// InstrumentPerfStats reports process health gauges on a fixed
// interval until ctx is cancelled. Harvest runs are long and mostly
// sleep between requests, so a slow cadence is plenty.
func InstrumentPerfStats(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(perfStatsInterval)
		defer ticker.Stop()

		var memStats runtime.MemStats
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				usage, err := cpu.Percent(time.Minute, false)
				if err != nil {
					slog.Warn("failed to read cpu usage", "err", err)
				} else if len(usage) > 0 {
					perfCpuGauge.Record(ctx, usage[0])
				}

				runtime.ReadMemStats(&memStats)
				perfHeapGauge.Record(ctx, int64(memStats.Alloc/1_000_000))
				perfObjectsGauge.Record(ctx, int64(memStats.Mallocs-memStats.Frees))
				perfGoroutineGauge.Record(ctx, int64(runtime.NumGoroutine()))
			}
		}
	}()
}
