package httpapi

import (
	"context"
	"testing"
)

func TestHandlerOperation(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		wantOp string
		wantOK bool
	}{
		{name: "handler span", in: "httpapi.Handler.ApproveMatches", wantOp: "ApproveMatches", wantOK: true},
		{name: "bare prefix", in: "httpapi.Handler.", wantOK: false},
		{name: "middleware span", in: "httpapi.RequestLogging", wantOK: false},
		{name: "helper span", in: "httpapi.writeError", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, ok := handlerOperation(tt.in)
			if ok != tt.wantOK || (ok && op != tt.wantOp) {
				t.Fatalf("handlerOperation(%q)=(%q,%v) want=(%q,%v)", tt.in, op, ok, tt.wantOp, tt.wantOK)
			}
		})
	}
}

func TestStartSpan_NoParent(t *testing.T) {
	ctx := context.Background()
	got, span := startSpan(ctx, "httpapi.Handler.Healthz")
	defer span.End()

	if got != ctx || span.SpanContext().IsValid() {
		t.Fatalf("expected a no-op span without a request span")
	}
}
