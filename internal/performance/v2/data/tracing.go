package data

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the package-wide otel tracer. With no SDK/exporter configured,
// otel.Tracer returns a no-op implementation, so this costs nothing unless
// the harness wires a real provider — the same "instrument the hot
// synchronous call" approach bc-dunia-mcpdrill applies around its drill
// steps.
var tracer = otel.Tracer("github.com/rampart-load/rampart/internal/performance/v2/data")

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return tracer.Start(ctx, name)
}
