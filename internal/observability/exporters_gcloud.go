//go:build gcloud

package observability

import (
	"context"
	"os"

	mexporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/metric"
	texporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/trace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func gcpProjectID() string {
	if id := os.Getenv("GCLOUD_PROJECT_ID"); id != "" {
		return id
	}
	return os.Getenv("GOOGLE_CLOUD_PROJECT")
}

func newTraceExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	return texporter.New(texporter.WithProjectID(gcpProjectID()))
}

func newMetricExporter(ctx context.Context) (sdkmetric.Exporter, error) {
	return mexporter.New(mexporter.WithProjectID(gcpProjectID()))
}
