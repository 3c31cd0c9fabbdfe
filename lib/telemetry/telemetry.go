// Package telemetry wires otel tracing and metrics from an optional
// json5 config file and owns the process's slog setup.
package telemetry

import (
	"context"
	"errors"
	"os"
	"testing"

	"hiscores-backend/lib/configutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"
)

// Telemetry holds the installed providers. The zero value is a valid
// no-op: spans and metrics still propagate, they just are not
// exported anywhere.
type Telemetry struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
}

func (t Telemetry) Shutdown(ctx context.Context) error {
	var tracerErr, meterErr error
	if t.TracerProvider != nil {
		tracerErr = t.TracerProvider.Shutdown(ctx)
	}
	if t.MeterProvider != nil {
		meterErr = t.MeterProvider.Shutdown(ctx)
	}
	return errors.Join(tracerErr, meterErr)
}

var testSetupDone = map[string]bool{}

// SetupForTesting initializes slog and telemetry once per service name
// so parallel test packages do not fight over the global providers.
func SetupForTesting(t testing.TB, serviceName string) func() {
	if testSetupDone[serviceName] {
		return func() {}
	}
	testSetupDone[serviceName] = true

	InitSlog(true)
	tel, err := SetupFromEnv(context.Background(), serviceName)
	if err != nil {
		t.Fatal(err)
	}
	return func() {
		err := tel.Shutdown(context.Background())
		if err != nil {
			t.Fatal(err)
		}
	}
}

// SetupFromEnv looks for a telemetry.json5 upward from the working
// directory. A missing file is not an error; it yields the no-op
// Telemetry so binaries and tests run fine without any observability
// endpoint configured.
func SetupFromEnv(ctx context.Context, serviceName string) (Telemetry, error) {
	config, err := configutil.ReadRecursively[Config]("telemetry.json5")
	if os.IsNotExist(err) {
		return Telemetry{}, nil
	}
	if err != nil {
		return Telemetry{}, err
	}
	return Setup(ctx, serviceName, config)
}

// Setup installs the configured exporters as the global otel providers
// and starts the process perf gauges.
func Setup(ctx context.Context, serviceName string, config Config) (Telemetry, error) {
	r, err := newResource(serviceName)
	if err != nil {
		return Telemetry{}, err
	}

	tracerProvider, err := newTraceProvider(ctx, r, config)
	if err != nil {
		return Telemetry{}, err
	}
	otel.SetTracerProvider(tracerProvider)

	meterProvider, err := newMetricProvider(ctx, r, config)
	if err != nil {
		return Telemetry{}, err
	}
	otel.SetMeterProvider(meterProvider)

	InstrumentPerfStats(ctx)

	return Telemetry{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
	}, nil
}
