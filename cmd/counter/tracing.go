package main

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/sdk/trace"

	"github.com/weegigs/wee-counter-go/support"
	"github.com/weegigs/wee-counter-go/we"
)

func installTracing(ctx context.Context, cfg support.TracingConfig) (func(ctx context.Context) error, error) {
	var exporter trace.SpanExporter
	var err error

	switch cfg.Exporter {
	case "none", "":
		return func(context.Context) error { return nil }, nil
	case "console":
		exporter, err = we.ConsoleExporter()
	case "jaeger":
		exporter, err = we.JaegerExporter()
	case "honeycomb":
		exporter, err = we.HoneycombExporter(ctx, cfg.Honeycomb.Team, cfg.Honeycomb.Dataset)
	default:
		return nil, errors.Errorf("unknown tracing exporter %q", cfg.Exporter)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s exporter", cfg.Exporter)
	}

	return we.InstallTracing(exporter, "wee-counter"), nil
}
