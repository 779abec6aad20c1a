package client

import (
	"context"
	"time"

	"course-checkout/internal/errs"
	"course-checkout/internal/metrics"
	"course-checkout/internal/model"
)

type instrumentedGateway struct {
	next    PaymentGateway
	metrics *metrics.Metrics
}

// NewInstrumentedGateway records the latency of every gateway call.
func NewInstrumentedGateway(next PaymentGateway, m *metrics.Metrics) PaymentGateway {
	return &instrumentedGateway{
		next:    next,
		metrics: m,
	}
}

func (g *instrumentedGateway) Name() string {
	return g.next.Name()
}

func (g *instrumentedGateway) CreateIntent(ctx context.Context, params model.IntentParams) (*model.CreatedIntent, error) {
	start := time.Now()
	created, err := g.next.CreateIntent(ctx, params)
	g.observe("create_intent", start, err)
	return created, err
}

func (g *instrumentedGateway) GetIntent(ctx context.Context, intentID string) (*model.PaymentIntent, error) {
	start := time.Now()
	intent, err := g.next.GetIntent(ctx, intentID)
	g.observe("get_intent", start, err)
	return intent, err
}

func (g *instrumentedGateway) observe(operation string, start time.Time, err error) {
	g.metrics.GatewayRequestDuration.
		WithLabelValues(operation, gatewayResult(err)).
		Observe(time.Since(start).Seconds())
}

func gatewayResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errs.Is(err, errs.ErrIntentNotFound):
		return "not_found"
	case errs.Is(err, errs.ErrInvalidRequest):
		return "invalid_request"
	default:
		return "unavailable"
	}
}
