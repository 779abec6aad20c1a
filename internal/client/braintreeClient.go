package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"course-checkout/internal/config"
	"course-checkout/internal/errs"
	"course-checkout/internal/model"

	"github.com/braintree-go/braintree-go"
	"github.com/shopspring/decimal"
)

const ProviderBraintree = "braintree"

// Braintree has no intent object: a server-side sale is the intent and the
// transaction id is the intent id. Checkout metadata travels in the order id.
type braintreeClientImpl struct {
	gateway  *braintree.Braintree
	currency string
}

func NewBraintreeClient(cfg *config.Braintree) PaymentGateway {
	env := braintree.Sandbox
	if cfg.Environment == "production" {
		env = braintree.Production
	}

	gateway := braintree.New(
		env,
		cfg.MerchantID,
		cfg.PublicKey,
		cfg.PrivateKey,
	)

	return &braintreeClientImpl{
		gateway:  gateway,
		currency: strings.ToLower(cfg.Currency),
	}
}

func (c *braintreeClientImpl) Name() string {
	return ProviderBraintree
}

func (c *braintreeClientImpl) CreateIntent(ctx context.Context, params model.IntentParams) (*model.CreatedIntent, error) {
	if params.PaymentMethodNonce == "" {
		return nil, errs.Mark(errs.New("braintree sale requires a payment method nonce"), errs.ErrInvalidRequest)
	}

	// the sale settles in the merchant account currency
	if params.Currency != "" && !strings.EqualFold(params.Currency, c.currency) {
		return nil, errs.Mark(
			errs.Newf("braintree merchant account settles in %s, not %s", c.currency, strings.ToLower(params.Currency)),
			errs.ErrInvalidRequest,
		)
	}

	req := &braintree.TransactionRequest{
		Type:               "sale",
		Amount:             braintree.NewDecimal(params.Amount, int(model.CurrencyExponent(c.currency))),
		PaymentMethodNonce: params.PaymentMethodNonce,
		OrderId:            encodeOrderID(params.Metadata),
		Options: &braintree.TransactionOptions{
			SubmitForSettlement: true,
		},
	}

	tx, err := c.gateway.Transaction().Create(ctx, req)
	if err != nil {
		return nil, braintreeError(errs.Wrap(err, "braintree transaction create"))
	}

	return &model.CreatedIntent{
		IntentID: tx.Id,
	}, nil
}

func (c *braintreeClientImpl) GetIntent(ctx context.Context, intentID string) (*model.PaymentIntent, error) {
	tx, err := c.gateway.Transaction().Find(ctx, intentID)
	if err != nil {
		return nil, braintreeError(errs.Wrapf(err, "braintree transaction find %s", intentID))
	}

	var amount int64
	if tx.Amount != nil {
		amount = decimal.New(tx.Amount.Unscaled, -int32(tx.Amount.Scale)).
			Shift(model.CurrencyExponent(c.currency)).
			IntPart()
	}

	return &model.PaymentIntent{
		ID:       tx.Id,
		Amount:   amount,
		Currency: c.currency,
		Status:   braintreeIntentStatus(string(tx.Status)),
		Metadata: decodeOrderID(tx.OrderId),
	}, nil
}

// braintreeError marks validation failures and unknown transactions apart
// from outages. The SDK returns *BraintreeError for 422 responses and an
// APIError carrying the status for other non-2xx responses.
func braintreeError(err error) error {
	var validation *braintree.BraintreeError
	if errors.As(err, &validation) {
		return errs.Mark(err, errs.ErrInvalidRequest)
	}

	var apiErr braintree.APIError
	if errors.As(err, &apiErr) {
		switch status := apiErr.StatusCode(); {
		case status == http.StatusNotFound:
			return errs.Mark(err, errs.ErrIntentNotFound)
		case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
			return errs.Mark(err, errs.ErrInvalidRequest)
		}
	}

	// 401/403, 429, 5xx and transport failures
	return errs.Mark(err, errs.ErrGatewayUnavailable)
}

func braintreeIntentStatus(status string) model.IntentStatus {
	switch status {
	case "submitted_for_settlement", "settling", "settlement_pending", "settled", "settlement_confirmed":
		return model.IntentStatusSucceeded
	case "authorizing", "authorized":
		return model.IntentStatusProcessing
	case "processor_declined", "gateway_rejected", "failed", "settlement_declined", "authorization_expired":
		return model.IntentStatusFailed
	case "voided":
		return model.IntentStatusCanceled
	default:
		return model.IntentStatusRequiresPayment
	}
}

func encodeOrderID(metadata map[string]string) string {
	values := url.Values{}
	for _, key := range []string{model.MetadataCourseID, model.MetadataUserID} {
		if v, ok := metadata[key]; ok {
			values.Set(key, v)
		}
	}
	return values.Encode()
}

func decodeOrderID(orderID string) map[string]string {
	values, err := url.ParseQuery(orderID)
	if err != nil {
		return nil
	}

	metadata := make(map[string]string, len(values))
	for k := range values {
		metadata[k] = values.Get(k)
	}
	return metadata
}
