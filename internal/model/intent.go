package model

// IntentStatus is the provider-neutral state of a payment intent.
type IntentStatus string

const (
	IntentStatusRequiresPayment IntentStatus = "requires_payment"
	IntentStatusProcessing      IntentStatus = "processing"
	IntentStatusSucceeded       IntentStatus = "succeeded"
	IntentStatusFailed          IntentStatus = "failed"
	IntentStatusCanceled        IntentStatus = "canceled"
)

const (
	MetadataUserID   = "user_id"
	MetadataCourseID = "course_id"
)

type PaymentIntent struct {
	ID           string
	Amount       int64 // minor units
	Currency     string
	Status       IntentStatus
	ClientSecret string
	Metadata     map[string]string
}

type CreatedIntent struct {
	IntentID     string
	ClientSecret string
}

type IntentParams struct {
	Amount   int64 // minor units
	Currency string
	Metadata map[string]string

	// PaymentMethodNonce is only used by gateways that charge server-side (braintree).
	PaymentMethodNonce string
}
