package service

import (
	"context"

	"course-checkout/internal/client"
	"course-checkout/internal/errs"
	"course-checkout/internal/model"
)

type Verification struct {
	IntentID string
	Verified bool
	Status   model.IntentStatus
	Amount   int64 // minor units
	Currency string
	Metadata map[string]string
	Detail   string
}

// IntentVerifier asks the gateway for the authoritative state of an intent.
// A returned error means no decision was obtained; a Verification with
// Verified false is the processor's decision.
type IntentVerifier interface {
	Verify(ctx context.Context, intentID string) (*Verification, error)
}

type intentVerifierImpl struct {
	gateway client.PaymentGateway
}

func NewIntentVerifier(gateway client.PaymentGateway) IntentVerifier {
	return &intentVerifierImpl{
		gateway: gateway,
	}
}

func (v *intentVerifierImpl) Verify(ctx context.Context, intentID string) (*Verification, error) {
	if intentID == "" {
		return nil, errs.Mark(errs.New("intent id is required"), errs.ErrInvalidRequest)
	}

	intent, err := v.gateway.GetIntent(ctx, intentID)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrIntentNotFound):
			return &Verification{
				IntentID: intentID,
				Status:   model.IntentStatusRequiresPayment,
				Detail:   "intent not found",
			}, nil
		case errs.Is(err, errs.ErrInvalidRequest):
			return nil, errs.Wrap(err, "verify intent")
		default:
			return nil, errs.Mark(errs.Wrap(err, "verify intent"), errs.ErrGatewayUnavailable)
		}
	}

	if intent.Status != model.IntentStatusSucceeded {
		return &Verification{
			IntentID: intentID,
			Status:   intent.Status,
			Metadata: intent.Metadata,
			Detail:   "intent status is " + string(intent.Status),
		}, nil
	}

	return &Verification{
		IntentID: intentID,
		Verified: true,
		Status:   intent.Status,
		Amount:   intent.Amount,
		Currency: intent.Currency,
		Metadata: intent.Metadata,
	}, nil
}
