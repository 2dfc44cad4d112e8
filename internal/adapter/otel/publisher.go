package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ferrowork/recordstate/internal/domain"
)

// TracingPublisher traces event publication, recording the record identity
// and the transition edge on the span.
type TracingPublisher struct {
	next   domain.EventPublisher
	tracer trace.Tracer
}

var _ domain.EventPublisher = (*TracingPublisher)(nil)

func NewTracingPublisher(next domain.EventPublisher) *TracingPublisher {
	return &TracingPublisher{next: next, tracer: otel.Tracer(tracerName)}
}

func (p *TracingPublisher) Publish(ctx context.Context, event domain.TransitionEvent) error {
	ctx, span := p.tracer.Start(ctx, "EventPublisher.Publish",
		trace.WithAttributes(
			attribute.String("record.id", event.Record.ID),
			attribute.String("record.store_id", event.Record.StoreID),
			attribute.String("record.type", string(event.Record.Type)),
			attribute.String("transition.from", string(event.From)),
			attribute.String("transition.to", string(event.To)),
		),
	)
	defer span.End()

	if err := p.next.Publish(ctx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
