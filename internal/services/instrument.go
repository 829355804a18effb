package services

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-blog-backend/internal/domain"
	"github.com/tbourn/go-blog-backend/internal/observability"
)

var tracer = otel.Tracer("github.com/tbourn/go-blog-backend/internal/services")

// track opens a span for entity/op and returns a finisher that records the
// outcome of *errp on both the span and m. Use with a named error result:
//
//	ctx, done := track(ctx, s.Metrics, "author", "create")
//	defer done(&err)
func track(ctx context.Context, m *observability.Metrics, entity, op string, attrs ...attribute.KeyValue) (context.Context, func(*error)) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, entity+"."+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(append(attrs, attribute.String("blog.entity", entity))...),
	)
	return ctx, func(errp *error) {
		var err error
		if errp != nil {
			err = *errp
		}
		o := outcome(err)
		span.SetAttributes(attribute.String("blog.outcome", o))
		observability.EndSpan(span, err, o != observability.OutcomeError)
		m.Observe(entity, op, o, start)
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			m.Rejected(entity, ve.Field)
		}
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeOK
	case domain.IsValidation(err):
		return observability.OutcomeInvalid
	case errors.Is(err, ErrAuthorNotFound), errors.Is(err, ErrPostNotFound):
		return observability.OutcomeNotFound
	default:
		return observability.OutcomeError
	}
}
