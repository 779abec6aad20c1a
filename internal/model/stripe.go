package model

import "encoding/json"

type StripeLastPaymentError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StripePaymentIntent struct {
	ID               string                  `json:"id"`
	Amount           int64                   `json:"amount"`
	Currency         string                  `json:"currency"`
	Status           string                  `json:"status"`
	ClientSecret     string                  `json:"client_secret"`
	Metadata         map[string]string       `json:"metadata"`
	LastPaymentError *StripeLastPaymentError `json:"last_payment_error"`
}

type StripeErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type StripeEventData struct {
	Object json.RawMessage `json:"object"`
}

type StripeWebhookEvent struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Created int64           `json:"created"`
	Data    StripeEventData `json:"data"`
}
