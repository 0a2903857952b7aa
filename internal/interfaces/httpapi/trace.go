package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const handlerSpanPrefix = "httpapi.Handler."

var handlerTracer = otel.Tracer("github.com/riskibarqy/pingpong-club/internal/interfaces/httpapi")

// startSpan opens a child span for a handler step. Only handler spans are
// kept, and only under a request span; /healthz is filtered by the
// middleware and so never has one.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	op, ok := handlerOperation(name)
	if !ok || !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, noop.Span{}
	}
	return handlerTracer.Start(ctx, name, trace.WithAttributes(attribute.String("club.handler", op)))
}

// handlerOperation returns the handler method a span name refers to.
func handlerOperation(name string) (string, bool) {
	op, ok := strings.CutPrefix(name, handlerSpanPrefix)
	return op, ok && op != ""
}
