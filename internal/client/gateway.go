package client

import (
	"context"

	"course-checkout/internal/model"
)

// PaymentGateway is the processor side of a checkout. Transport, auth and
// server-side failures are marked errs.ErrGatewayUnavailable; an intent the
// processor does not know is marked errs.ErrIntentNotFound.
type PaymentGateway interface {
	Name() string
	CreateIntent(ctx context.Context, params model.IntentParams) (*model.CreatedIntent, error)
	GetIntent(ctx context.Context, intentID string) (*model.PaymentIntent, error)
}
