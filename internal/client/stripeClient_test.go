package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"course-checkout/internal/config"
	"course-checkout/internal/errs"
	"course-checkout/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStripe(t *testing.T, h http.HandlerFunc) PaymentGateway {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return NewStripeClient(&config.Stripe{
		BaseApiURL: srv.URL,
		SecretKey:  "sk_test_123",
		Timeout:    2 * time.Second,
	})
}

func TestStripeClient_GetIntent(t *testing.T) {
	gateway := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/payment_intents/pi_123", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "pi_123",
			"amount": 4900,
			"currency": "USD",
			"status": "succeeded",
			"client_secret": "pi_123_secret",
			"metadata": {"user_id": "user-1", "course_id": "course-1"}
		}`))
	})

	intent, err := gateway.GetIntent(context.Background(), "pi_123")

	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.ID)
	assert.EqualValues(t, 4900, intent.Amount)
	assert.Equal(t, "usd", intent.Currency)
	assert.Equal(t, model.IntentStatusSucceeded, intent.Status)
	assert.Equal(t, "course-1", intent.Metadata[model.MetadataCourseID])
}

func TestStripeClient_CreateIntent(t *testing.T) {
	gateway := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "4900", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		assert.Equal(t, "true", r.PostForm.Get("automatic_payment_methods[enabled]"))
		assert.Equal(t, "user-1", r.PostForm.Get("metadata[user_id]"))

		_, _ = w.Write([]byte(`{"id": "pi_new", "client_secret": "pi_new_secret", "status": "requires_payment_method"}`))
	})

	created, err := gateway.CreateIntent(context.Background(), model.IntentParams{
		Amount:   4900,
		Currency: "USD",
		Metadata: map[string]string{model.MetadataUserID: "user-1"},
	})

	require.NoError(t, err)
	assert.Equal(t, "pi_new", created.IntentID)
	assert.Equal(t, "pi_new_secret", created.ClientSecret)
}

func TestStripeClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMark error
	}{
		{name: "not found", status: http.StatusNotFound, body: `{"error":{"code":"resource_missing","message":"No such payment_intent"}}`, wantMark: errs.ErrIntentNotFound},
		{name: "bad request", status: http.StatusBadRequest, body: `{"error":{"message":"Invalid id"}}`, wantMark: errs.ErrInvalidRequest},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":{"message":"Invalid API Key"}}`, wantMark: errs.ErrGatewayUnavailable},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{}`, wantMark: errs.ErrGatewayUnavailable},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`, wantMark: errs.ErrGatewayUnavailable},
		{name: "garbled success", status: http.StatusOK, body: `{"id":`, wantMark: errs.ErrGatewayUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := gateway.GetIntent(context.Background(), "pi_123")

			require.Error(t, err)
			assert.True(t, errs.Is(err, tt.wantMark), "got %v", err)
		})
	}
}

func TestStripeClient_Unreachable(t *testing.T) {
	gateway := NewStripeClient(&config.Stripe{BaseApiURL: "http://127.0.0.1:1", Timeout: time.Second})

	_, err := gateway.GetIntent(context.Background(), "pi_123")

	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrGatewayUnavailable))
}

func TestStripeIntentStatus(t *testing.T) {
	tests := []struct {
		in   model.StripePaymentIntent
		want model.IntentStatus
	}{
		{in: model.StripePaymentIntent{Status: "succeeded"}, want: model.IntentStatusSucceeded},
		{in: model.StripePaymentIntent{Status: "processing"}, want: model.IntentStatusProcessing},
		{in: model.StripePaymentIntent{Status: "requires_capture"}, want: model.IntentStatusProcessing},
		{in: model.StripePaymentIntent{Status: "canceled"}, want: model.IntentStatusCanceled},
		{in: model.StripePaymentIntent{Status: "requires_payment_method"}, want: model.IntentStatusRequiresPayment},
		{in: model.StripePaymentIntent{Status: "requires_action"}, want: model.IntentStatusRequiresPayment},
		{in: model.StripePaymentIntent{
			Status:           "requires_payment_method",
			LastPaymentError: &model.StripeLastPaymentError{Code: "card_declined"},
		}, want: model.IntentStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.in.Status, func(t *testing.T) {
			assert.Equal(t, tt.want, stripeIntentStatus(&tt.in))
		})
	}
}
