package observability

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type Config struct {
	ServiceName  string
	Version      string
	LogLevel     slog.Level
	SamplingRate float64
}

// Resources bundles the process-wide observability state: the slog
// logger and the OpenTelemetry providers.
type Resources struct {
	logger        *slog.Logger
	traceProvider *sdktrace.TracerProvider
	meterProvider *sdkmetric.MeterProvider
}

// Init sets up structured logging and the OpenTelemetry SDK. Exporters
// come from the platform build: OTLP over HTTP locally, Cloud
// Monitoring and Cloud Trace under the gcloud tag. A missing exporter
// configuration degrades to logging only, never to a startup failure.
func Init(ctx context.Context, cfg Config) (*Resources, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
		),
	)
	if err != nil {
		return nil, err
	}

	r := &Resources{logger: logger}

	sampling := cfg.SamplingRate
	if sampling <= 0 || sampling > 1 {
		sampling = 1.0
	}

	traceExporter, err := newTraceExporter(ctx)
	if err != nil {
		logger.Warn("trace exporter unavailable, tracing disabled",
			slog.String("error", err.Error()),
		)
	}
	if traceExporter != nil {
		r.traceProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(traceExporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampling))),
		)
		otel.SetTracerProvider(r.traceProvider)
	}

	metricExporter, err := newMetricExporter(ctx)
	if err != nil {
		logger.Warn("metric exporter unavailable, metrics disabled",
			slog.String("error", err.Error()),
		)
	}
	if metricExporter != nil {
		r.meterProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
				sdkmetric.WithInterval(30*time.Second),
			)),
			sdkmetric.WithResource(res),
		)
		otel.SetMeterProvider(r.meterProvider)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return r, nil
}

func (r *Resources) Logger() *slog.Logger {
	return r.logger
}

func (r *Resources) Shutdown(ctx context.Context) error {
	var errs []error
	if r.traceProvider != nil {
		if err := r.traceProvider.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if r.meterProvider != nil {
		if err := r.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
