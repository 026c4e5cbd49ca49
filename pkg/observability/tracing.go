package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "chatseg"

// Tracer returns the shared tracer for chatseg spans.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartParseSpan starts a span covering one extraction run.
func StartParseSpan(ctx context.Context, inputBytes int) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "chatseg.parse",
		trace.WithAttributes(
			attribute.Int("chatseg.input_bytes", inputBytes),
		),
	)
}

// EndParseSpan annotates and ends a parse span.
func EndParseSpan(span trace.Span, segments int, transcript bool) {
	span.SetAttributes(
		attribute.Int("chatseg.segments", segments),
		attribute.Bool("chatseg.transcript", transcript),
	)
	span.End()
}

// StartStoreSpan starts a span covering a transcript write.
func StartStoreSpan(ctx context.Context, contentID string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "chatseg.ingest.store",
		trace.WithAttributes(
			attribute.String("chatseg.content_id", contentID),
		),
	)
}

// EndSpanError records err on span and ends it. A nil err ends the
// span with OK status.
func EndSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
