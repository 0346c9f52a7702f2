package usecases

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/samirrijal/traveltip/internal/core/usecases")

func withID(id string) trace.SpanStartOption {
	return trace.WithAttributes(attribute.String("location.id", id))
}

func attributeInt(key string, v int) trace.SpanStartOption {
	return trace.WithAttributes(attribute.Int(key, v))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
