package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"course-checkout/internal/config"
	"course-checkout/internal/errs"
	"course-checkout/internal/model"
)

const ProviderStripe = "stripe"

type stripeClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	secretKey  string
}

func NewStripeClient(stripeCfg *config.Stripe) PaymentGateway {
	timeout := stripeCfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &stripeClientImpl{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseApiURL: strings.TrimRight(stripeCfg.BaseApiURL, "/"),
		secretKey:  stripeCfg.SecretKey,
	}
}

func (c *stripeClientImpl) Name() string {
	return ProviderStripe
}

func (c *stripeClientImpl) CreateIntent(ctx context.Context, params model.IntentParams) (*model.CreatedIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(params.Amount, 10))
	form.Set("currency", strings.ToLower(params.Currency))
	form.Set("automatic_payment_methods[enabled]", "true")
	for k, v := range params.Metadata {
		form.Set("metadata["+k+"]", v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/v1/payment_intents",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errs.Wrap(err, "create stripe intent request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var result model.StripePaymentIntent
	if err := c.do(req, &result); err != nil {
		return nil, errs.Wrap(err, "stripe create payment intent")
	}

	return &model.CreatedIntent{
		IntentID:     result.ID,
		ClientSecret: result.ClientSecret,
	}, nil
}

func (c *stripeClientImpl) GetIntent(ctx context.Context, intentID string) (*model.PaymentIntent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseApiURL+"/v1/payment_intents/"+url.PathEscape(intentID),
		nil)
	if err != nil {
		return nil, errs.Wrap(err, "create stripe intent request")
	}

	var result model.StripePaymentIntent
	if err := c.do(req, &result); err != nil {
		return nil, errs.Wrapf(err, "stripe get payment intent %s", intentID)
	}

	return &model.PaymentIntent{
		ID:           result.ID,
		Amount:       result.Amount,
		Currency:     strings.ToLower(result.Currency),
		Status:       stripeIntentStatus(&result),
		ClientSecret: result.ClientSecret,
		Metadata:     result.Metadata,
	}, nil
}

func (c *stripeClientImpl) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.Mark(errs.Wrap(err, "stripe http client do"), errs.ErrGatewayUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.Mark(errs.Wrap(err, "read stripe response"), errs.ErrGatewayUnavailable)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return stripeStatusError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errs.Mark(errs.Wrap(err, "decode stripe response"), errs.ErrGatewayUnavailable)
	}

	return nil
}

func stripeStatusError(status int, body []byte) error {
	var apiErr model.StripeErrorBody
	_ = json.Unmarshal(body, &apiErr)

	err := errs.Newf("stripe error %d: %s", status, apiErr.Error.Message)

	switch {
	case status == http.StatusNotFound:
		return errs.Mark(err, errs.ErrIntentNotFound)
	case apiErr.Error.Code == "resource_missing":
		return errs.Mark(err, errs.ErrIntentNotFound)
	case status == http.StatusBadRequest:
		return errs.Mark(err, errs.ErrInvalidRequest)
	default:
		// 401/403 (bad key), 429 and 5xx: no decision was obtained
		return errs.Mark(err, errs.ErrGatewayUnavailable)
	}
}

func stripeIntentStatus(pi *model.StripePaymentIntent) model.IntentStatus {
	switch pi.Status {
	case "succeeded":
		return model.IntentStatusSucceeded
	case "canceled":
		return model.IntentStatusCanceled
	case "processing", "requires_capture":
		return model.IntentStatusProcessing
	case "requires_payment_method":
		if pi.LastPaymentError != nil {
			return model.IntentStatusFailed
		}
		return model.IntentStatusRequiresPayment
	default:
		return model.IntentStatusRequiresPayment
	}
}
