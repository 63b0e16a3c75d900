package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "saasbase"

type OTelTracer struct {
	tracer trace.Tracer
}

type OTelOption func(*OTelTracer)

func WithOTelTracer(t trace.Tracer) OTelOption {
	return func(o *OTelTracer) { o.tracer = t }
}

// NewOTel traces through the global provider unless WithOTelTracer is given.
func NewOTel(opts ...OTelOption) *OTelTracer {
	o := &OTelTracer{tracer: otel.Tracer(instrumentationName)}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func NewNoop() *OTelTracer {
	return NewOTel(WithOTelTracer(noop.NewTracerProvider().Tracer(instrumentationName)))
}

func (o *OTelTracer) Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	ctx, s := o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, span{s}
}

type span struct {
	trace.Span
}

func (s span) End(err error) {
	if err != nil {
		s.RecordError(err)
		s.SetStatus(codes.Error, err.Error())
	}
	s.Span.End()
}

func (s span) SetAttributes(attrs ...Attribute) {
	s.Span.SetAttributes(attrs...)
}

func (s span) AddEvent(name string, attrs ...Attribute) {
	s.Span.AddEvent(name, trace.WithAttributes(attrs...))
}

var _ Tracer = (*OTelTracer)(nil)
