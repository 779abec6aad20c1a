package dto

import "time"

type CourseResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type CreateIntentRequest struct {
	CourseID string `json:"course_id"`
	// PaymentMethodNonce is required when the gateway is braintree.
	PaymentMethodNonce string `json:"payment_method_nonce,omitempty"`
}

type CreateIntentResponse struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret,omitempty"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type ConfirmPaymentRequest struct {
	IntentID string `json:"intent_id"`
	CourseID string `json:"course_id"`
}

type PaymentResponse struct {
	IntentID string `json:"intent_id"`
	CourseID string `json:"course_id"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type EnrollmentResponse struct {
	CourseID   string    `json:"course_id"`
	Status     string    `json:"status"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

type OutcomeResponse struct {
	Outcome      string              `json:"outcome"`
	Reason       string              `json:"reason,omitempty"`
	IntentStatus string              `json:"intent_status,omitempty"`
	Message      string              `json:"message,omitempty"`
	Retry        string              `json:"retry,omitempty"`
	Payment      *PaymentResponse    `json:"payment,omitempty"`
	Enrollment   *EnrollmentResponse `json:"enrollment,omitempty"`
}

type EnrollmentListResponse struct {
	Enrollments []*EnrollmentResponse `json:"enrollments"`
}
