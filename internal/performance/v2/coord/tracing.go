package coord

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer mirrors data.tracer: a no-op Tracer until the harness configures a
// real otel SDK, following the same "instrument the hot synchronous call"
// pattern bc-dunia-mcpdrill applies around its drill steps.
var tracer = otel.Tracer("github.com/rampart-load/rampart/internal/performance/v2/coord")

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return tracer.Start(ctx, name)
}
