package observability

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/tbourn/go-trip-sync/internal/config"
)

func TestSetupOTel_Disabled(t *testing.T) {
	shutdown, err := SetupOTel(context.Background(), config.OTELConfig{Enabled: false}, "test")
	if err != nil {
		t.Fatalf("SetupOTel: %v", err)
	}
	if shutdown == nil {
		t.Fatal("shutdown func is nil")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
}

func TestSetupOTel_ExporterFailure(t *testing.T) {
	orig := newTraceExporter
	t.Cleanup(func() { newTraceExporter = orig })
	newTraceExporter = func(context.Context, otlptrace.Client) (*otlptrace.Exporter, error) {
		return nil, errors.New("exporter unavailable")
	}

	cfg := config.OTELConfig{Enabled: true, Endpoint: "localhost:4317", Insecure: true, SampleRatio: 1}
	if _, err := SetupOTel(context.Background(), cfg, "test"); err == nil {
		t.Fatal("expected exporter error to propagate")
	}
}

func TestSetupOTel_ResourceFailure(t *testing.T) {
	origExporter := newTraceExporter
	origResource := newServiceResource
	t.Cleanup(func() {
		newTraceExporter = origExporter
		newServiceResource = origResource
	})
	newTraceExporter = func(ctx context.Context, client otlptrace.Client) (*otlptrace.Exporter, error) {
		return &otlptrace.Exporter{}, nil
	}
	newServiceResource = func(context.Context, string, string) (*resource.Resource, error) {
		return nil, errors.New("resource unavailable")
	}

	cfg := config.OTELConfig{Enabled: true, Endpoint: "localhost:4317", Insecure: true, SampleRatio: 1}
	if _, err := SetupOTel(context.Background(), cfg, "test"); err == nil {
		t.Fatal("expected resource error to propagate")
	}
}
