package service

import (
	"course-checkout/internal/model"
)

type OutcomeKind string

const (
	OutcomeSuccess                         OutcomeKind = "success"
	OutcomePaymentRejected                 OutcomeKind = "payment_rejected"
	OutcomePaymentRecordedEnrollmentFailed OutcomeKind = "payment_recorded_enrollment_failed"
)

type RejectReason string

const (
	ReasonDeclined           RejectReason = "declined"
	ReasonGatewayUnavailable RejectReason = "gateway_unavailable"
	ReasonPersistenceFailure RejectReason = "persistence_failure"
	ReasonInvalidRequest     RejectReason = "invalid_request"
	ReasonOwnershipMismatch  RejectReason = "ownership_mismatch"
)

type RetryStep string

const (
	RetryNone       RetryStep = ""
	RetryPayment    RetryStep = "payment"
	RetryEnrollment RetryStep = "enrollment"
)

// Outcome is the result of one reconciliation attempt. Only the fields that
// belong to Kind are set: Reason and IntentStatus for a rejection, Payment for
// a partial success, Payment and Enrollment for a success.
type Outcome struct {
	Kind         OutcomeKind
	Reason       RejectReason
	IntentStatus model.IntentStatus
	Detail       string
	Payment      *model.Payment
	Enrollment   *model.Enrollment
	Err          error
}

func (o *Outcome) IsSuccess() bool {
	return o.Kind == OutcomeSuccess
}

// RetryStep tells the caller which step may be re-run. A rejection caused by
// bad input or a foreign intent is final.
func (o *Outcome) RetryStep() RetryStep {
	switch o.Kind {
	case OutcomePaymentRecordedEnrollmentFailed:
		return RetryEnrollment
	case OutcomePaymentRejected:
		switch o.Reason {
		case ReasonDeclined, ReasonGatewayUnavailable, ReasonPersistenceFailure:
			return RetryPayment
		}
	}
	return RetryNone
}

func succeeded(payment *model.Payment, enrollment *model.Enrollment) *Outcome {
	return &Outcome{
		Kind:       OutcomeSuccess,
		Payment:    payment,
		Enrollment: enrollment,
	}
}

func rejected(reason RejectReason, detail string, err error) *Outcome {
	return &Outcome{
		Kind:   OutcomePaymentRejected,
		Reason: reason,
		Detail: detail,
		Err:    err,
	}
}

func declined(status model.IntentStatus, detail string) *Outcome {
	return &Outcome{
		Kind:         OutcomePaymentRejected,
		Reason:       ReasonDeclined,
		IntentStatus: status,
		Detail:       detail,
	}
}

func enrollmentFailed(payment *model.Payment, err error) *Outcome {
	return &Outcome{
		Kind:    OutcomePaymentRecordedEnrollmentFailed,
		Detail:  "payment received, access pending",
		Payment: payment,
		Err:     err,
	}
}
