package usecase

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

var usecaseTracer = otel.Tracer("github.com/riskibarqy/pingpong-club/internal/usecase")

// startUsecaseSpan opens a child span. Calls without a sampled parent, such
// as clubctl commands and tests, get a no-op span.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if name == "" || !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, noop.Span{}
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func batchSizeAttr(ids []int64) attribute.KeyValue {
	return attribute.Int("club.batch_size", len(ids))
}

// failSpan marks span failed for errors other than caller mistakes.
func failSpan(span trace.Span, err error) {
	if err == nil {
		return
	}
	for _, target := range []error{ErrInvalidInput, ErrNotFound, ErrUnauthorized, ErrForbidden, ErrConflict} {
		if errors.Is(err, target) {
			return
		}
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
